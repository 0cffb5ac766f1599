// Package sync runs the webhook-to-index pipeline: fan out over the
// parsed notifications, resolve and build each one, reduce the results
// into a single write batch.
package sync

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	DefaultSlugElement = "url"
	DefaultMaxDepth    = 3
	DefaultConcurrency = 8
)

// Options carries the pipeline knobs the caller must settle before any
// notification is processed. Validate enforces presence up front so the
// processing path never reads defaults implicitly.
type Options struct {
	// SlugElement is the element codename whose non-empty string value
	// marks an item as independently indexable.
	SlugElement string `yaml:"slugElement" schema:"default=url,minLength=1" description:"Element codename whose non-empty string value marks an item as independently indexable"`

	// MaxDepth bounds link-graph resolution, in hops from the root.
	MaxDepth int `yaml:"maxDepth" schema:"default=3,minimum=1" description:"Link-graph resolution bound, in hops from the notified item"`

	// Concurrency caps how many notifications of one delivery are
	// processed at once.
	Concurrency int `yaml:"concurrency" schema:"default=8,minimum=1" description:"How many notifications of one delivery are processed at once"`

	// EnvironmentID, when set, drops notifications addressed to other
	// environments. Empty disables the check.
	EnvironmentID string `yaml:"environmentID" schema:"pattern=^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$" description:"Restricts processing to one source environment; empty disables the check"`
}

func DefaultOptions() Options {
	return Options{
		SlugElement: DefaultSlugElement,
		MaxDepth:    DefaultMaxDepth,
		Concurrency: DefaultConcurrency,
	}
}

func (o Options) Validate() error {
	if o.SlugElement == "" {
		return fmt.Errorf("slug element codename is required")
	}
	if o.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", o.MaxDepth)
	}
	if o.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", o.Concurrency)
	}
	if o.EnvironmentID != "" {
		if _, err := uuid.Parse(o.EnvironmentID); err != nil {
			return fmt.Errorf("environment id is not valid: %w", err)
		}
	}
	return nil
}
