// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Command gen-schema writes the configuration JSON Schema used by editors
// to validate ember.yaml.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/emberforge/ember/internal/config"
)

const defaultOutPath = "schemas/config.schema.json"

func main() {
	out := pflag.StringP("out", "o", defaultOutPath, "output file")
	pflag.Parse()

	if err := generate(*out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", *out)
}

// generate writes the schema to outPath, creating parent directories.
func generate(outPath string) error {
	schema, err := config.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generating schema: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(outPath, schema, 0o600); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
