// Package config holds the runtime configuration for batchme: output
// location, rasterizer options, worker-pool sizing, and logging. Defaults are
// compiled in; an optional YAML file overlays them; CLI flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	// DefaultOutputDir is where generated barcode images land when no
	// directory is configured.
	DefaultOutputDir = "barcodes"

	// DefaultModuleWidth is the pixel width of one barcode module.
	DefaultModuleWidth = 2

	// DefaultBarHeight is the bar height in pixels.
	DefaultBarHeight = 110

	// DefaultQuietZone is the quiet-zone width in modules on each side,
	// the UPC standard minimum of nine modules.
	DefaultQuietZone = 9

	// MaxWorkers caps the worker pool regardless of available CPUs.
	MaxWorkers = 32
)

// Config is the top-level configuration structure.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls where image blobs are written.
type OutputConfig struct {
	// Dir is the directory that receives generated PNG files.
	Dir string `yaml:"dir"`
}

// RenderConfig controls the rasterizer.
type RenderConfig struct {
	// ModuleWidth is the pixel width of a single module.
	ModuleWidth int `yaml:"module_width"`

	// BarHeight is the bar height in pixels.
	BarHeight int `yaml:"bar_height"`

	// QuietZone is the quiet-zone width in modules on each side.
	QuietZone int `yaml:"quiet_zone"`

	// Text controls the human-readable digit strip beneath the bars.
	// Nil means the default (enabled).
	Text *bool `yaml:"text"`
}

// ShowText reports whether the human-readable digit strip is enabled.
func (r RenderConfig) ShowText() bool {
	if r.Text == nil {
		return true
	}
	return *r.Text
}

// BatchConfig controls batch processing.
type BatchConfig struct {
	// Workers is the worker-pool size. Zero means the default derived
	// from available parallelism; read it through WorkerCount.
	Workers int `yaml:"workers"`
}

// WorkerCount returns the configured worker-pool size, substituting the
// parallelism-derived default when the value is unset or invalid. A YAML
// overlay that replaces the batch section without a workers key leaves
// Workers at zero; this is where that zero becomes the real default.
func (b BatchConfig) WorkerCount() int {
	if b.Workers < 1 {
		return DefaultWorkers()
	}
	return b.Workers
}

// LoggingConfig controls the zerolog setup.
type LoggingConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `yaml:"level"`

	// File is an optional log file path. Empty means console only.
	File string `yaml:"file"`
}

// New returns a Config populated with compiled-in defaults.
func New() *Config {
	return &Config{
		Output: OutputConfig{Dir: DefaultOutputDir},
		Render: RenderConfig{
			ModuleWidth: DefaultModuleWidth,
			BarHeight:   DefaultBarHeight,
			QuietZone:   DefaultQuietZone,
		},
		Batch:   BatchConfig{Workers: DefaultWorkers()},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultWorkers derives the default worker-pool size from available
// parallelism, capped at MaxWorkers.
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}

// Top-level YAML config key names used for shallow merge.
const (
	keyOutput  = "output"
	keyRender  = "render"
	keyBatch   = "batch"
	keyLogging = "logging"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto the
// target Config. Keys present in the overlay replace entire sections in the
// target; keys absent in the overlay leave the target unchanged. Unknown
// top-level keys are silently ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		// Re-marshal the single section so we can unmarshal it onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling config section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying config section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection unmarshals raw YAML bytes into the correct field of target.
// Each section is unmarshalled into a fresh zero value so the overlay replaces
// the whole section rather than merging into it.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyOutput:
		var v OutputConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Output = v
	case keyRender:
		var v RenderConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Render = v
	case keyBatch:
		var v BatchConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Batch = v
	case keyLogging:
		var v LoggingConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
	}
	return nil
}
