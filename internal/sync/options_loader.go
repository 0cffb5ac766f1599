package sync

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	OptionsKind    = "SyncOptions"
	OptionsVersion = "v1"
)

// OptionsFile is the on-disk envelope for pipeline options.
type OptionsFile struct {
	Kind     string `yaml:"kind" schema:"required,enum=SyncOptions" description:"Resource type identifier"`
	Version  string `yaml:"version" schema:"required,enum=v1" description:"Options format version"`
	Metadata struct {
		Name        string `yaml:"name" schema:"minLength=1,maxLength=100" description:"Human-readable name for this options set"`
		Description string `yaml:"description" schema:"maxLength=500" description:"What this options set configures"`
	} `yaml:"metadata" description:"Options metadata"`
	Options Options `yaml:"options" schema:"required" description:"Pipeline options"`
}

type YAMLOptionsLoader struct {
	reader io.Reader
}

func NewYAMLOptionsLoader(reader io.Reader) *YAMLOptionsLoader {
	return &YAMLOptionsLoader{
		reader: reader,
	}
}

// Load decodes an options file over the defaults, so omitted keys keep
// their default values.
func (l *YAMLOptionsLoader) Load(validate bool) (*Options, error) {
	file := OptionsFile{
		Options: DefaultOptions(),
	}
	decoder := yaml.NewDecoder(l.reader)
	if err := decoder.Decode(&file); err != nil {
		return nil, err
	}

	if file.Kind != OptionsKind {
		return nil, fmt.Errorf("unexpected kind %q, want %q", file.Kind, OptionsKind)
	}
	if file.Version != OptionsVersion {
		return nil, fmt.Errorf("unexpected version %q, want %q", file.Version, OptionsVersion)
	}

	if validate {
		if err := file.Options.Validate(); err != nil {
			return nil, err
		}
	}
	return &file.Options, nil
}

// LoadOptionsFile reads pipeline options from the YAML document at
// path, or returns the defaults when no path is configured.
func LoadOptionsFile(path string) (*Options, error) {
	if path == "" {
		opts := DefaultOptions()
		return &opts, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open options file: %w", err)
	}
	defer file.Close()

	return NewYAMLOptionsLoader(file).Load(true)
}
