package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hanpama/kenvert"
)

// Config holds the conversion settings that can come from a YAML file.
// Command-line flags take precedence over file values.
type Config struct {
	Format               string `yaml:"format"`
	ReturnLocations      bool   `yaml:"return_locations"`
	DuplicateMergedCells bool   `yaml:"duplicate_merged_cells"`
	Validation           string `yaml:"validation"`
	UseFirstRowAsHeader  bool   `yaml:"use_first_row_as_header"`
	PageWidth            int    `yaml:"page_width"`
	PageHeight           int    `yaml:"page_height"`
	Resize               bool   `yaml:"resize"`
	Jobs                 int    `yaml:"jobs"`
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() Config {
	opts := kenvert.DefaultOptions()
	return Config{
		Format:               string(kenvert.FormatMarkdown),
		ReturnLocations:      opts.ReturnLocations,
		DuplicateMergedCells: opts.DuplicateMergedCells,
		Validation:           opts.Validation.String(),
		UseFirstRowAsHeader:  opts.UseFirstRowAsHeader,
		PageWidth:            opts.PageWidth,
		PageHeight:           opts.PageHeight,
		Resize:               opts.Resize,
		Jobs:                 4,
	}
}

// LoadConfig reads a YAML config file over the defaults. Environment
// variables in the file are expanded.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	return cfg, nil
}

// Options converts the config into conversion options.
func (c Config) Options(logger *slog.Logger) (kenvert.Format, kenvert.Options, error) {
	format, err := kenvert.ParseFormat(c.Format)
	if err != nil {
		return "", kenvert.Options{}, err
	}

	validation, err := kenvert.ParseValidation(c.Validation)
	if err != nil {
		return "", kenvert.Options{}, err
	}

	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return "", kenvert.Options{}, fmt.Errorf("page size must be positive, got %dx%d", c.PageWidth, c.PageHeight)
	}

	return format, kenvert.Options{
		ReturnLocations:      c.ReturnLocations,
		DuplicateMergedCells: c.DuplicateMergedCells,
		Validation:           validation,
		UseFirstRowAsHeader:  c.UseFirstRowAsHeader,
		PageWidth:            c.PageWidth,
		PageHeight:           c.PageHeight,
		Resize:               c.Resize,
		Logger:               logger,
	}, nil
}
