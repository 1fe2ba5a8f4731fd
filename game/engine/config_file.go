package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Config file formats
const (
	FormatHCL  = "hcl"
	FormatJSON = "json"
)

// FormatForPath returns the config format implied by the file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return FormatHCL, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// evalContext exposes the built-in values as defaults.* so config files can
// write e.g. `large = defaults.large_grid + 2`.
func evalContext() *hcl.EvalContext {
	def := DefaultConfig()
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"defaults": cty.ObjectVal(map[string]cty.Value{
				"small_grid":             cty.NumberIntVal(int64(def.Grid.Small)),
				"large_grid":             cty.NumberIntVal(int64(def.Grid.Large)),
				"breakpoint":             cty.NumberIntVal(int64(def.Grid.Breakpoint)),
				"timer":                  cty.StringVal(def.Timer),
				"orientation_lock_width": cty.NumberIntVal(int64(def.OrientationLockWidth)),
				"caption_breakpoint":     cty.NumberIntVal(int64(def.CaptionBreakpoint)),
			}),
		},
	}
}

// DecodeConfig parses src in the given format, fills defaults and validates
// the result. filename is only used in diagnostics.
func DecodeConfig(src []byte, filename, format string) (*GameConfig, error) {
	parser := hclparse.NewParser()

	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	switch format {
	case FormatHCL:
		file, diags = parser.ParseHCL(src, filename)
	case FormatJSON:
		file, diags = parser.ParseJSON(src, filename)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	var config GameConfig
	diags = gohcl.DecodeBody(file.Body, evalContext(), &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}

	ApplyDefaults(&config)
	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &config, nil
}

// LoadConfigFile reads a .hcl or .json game config from disk.
func LoadConfigFile(path string) (*GameConfig, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return DecodeConfig(src, path, format)
}

// EncodeConfig renders a config in the given format.
func EncodeConfig(config *GameConfig, format string) ([]byte, error) {
	switch format {
	case FormatHCL:
		f := hclwrite.NewEmptyFile()
		gohcl.EncodeIntoBody(config, f.Body())
		return f.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}
