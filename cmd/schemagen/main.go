// Schemagen emits the JSON Schema and an example document for the
// sync-options YAML file, for editor validation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	syncpipe "github.com/camphaven/searchsync/internal/sync"
	"github.com/camphaven/searchsync/pkg/schema"
)

func main() {
	outputDir := flag.String("output", "api", "Output directory for generated schemas")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	generator := schema.NewGenerator()

	schemaJSON, err := generator.GenerateJSONSchema(syncpipe.OptionsFile{})
	if err != nil {
		log.Fatalf("Failed to generate schema for sync options: %v", err)
	}

	jsonFile := filepath.Join(*outputDir, "syncoptions-v1.json")
	if err := os.WriteFile(jsonFile, []byte(schemaJSON), 0644); err != nil {
		log.Fatalf("Failed to write JSON schema: %v", err)
	}
	fmt.Printf("Generated JSON schema: %s\n", jsonFile)

	yamlFile := filepath.Join(*outputDir, "syncoptions-example.yaml")
	if err := os.WriteFile(yamlFile, []byte(exampleYAML), 0644); err != nil {
		log.Fatalf("Failed to write YAML example: %v", err)
	}
	fmt.Printf("Generated YAML example: %s\n", yamlFile)
}

const exampleYAML = `# Sync pipeline options
kind: SyncOptions
version: v1
metadata:
  name: "Production sync"
  description: "Webhook sync options for the production environment"
options:
  slugElement: url
  maxDepth: 3
  concurrency: 8
  environmentID: "97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21"
`
