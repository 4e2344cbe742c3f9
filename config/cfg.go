package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"

	"github.com/benoitkugler/svgview/svgicon"
	"github.com/benoitkugler/svgview/svgpath"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	ViewConfig struct {
		Width       int     `yaml:"width" validate:"gte=0,lte=32768"`
		Height      int     `yaml:"height" validate:"gte=0,lte=32768"`
		Background  string  `yaml:"background"`
		Rotation    float64 `yaml:"rotation" validate:"gte=-360,lte=360"`
		JPEGQuality int     `yaml:"jpeg_quality" validate:"gte=1,lte=100"`
	}

	ParseConfig struct {
		ErrorMode     string  `yaml:"error_mode" validate:"oneof=ignore warn strict"`
		DefaultWidth  float64 `yaml:"default_width" validate:"gte=0"`
		DefaultHeight float64 `yaml:"default_height" validate:"gte=0"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		View    ViewConfig    `yaml:"view"`
		Parse   ParseConfig   `yaml:"parse"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the default configuration
// and performs validation. An empty path returns the defaults.
func LoadConfiguration(path string) (*Config, error) {
	haveFile := len(path) > 0

	cfg, err := unmarshalConfig(defaultConfig, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Default returns the content of the default configuration file.
func Default() []byte {
	return append([]byte(nil), defaultConfig...)
}

// Dump returns the YAML representation of the configuration.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Validate checks the field ranges and the background color.
func (cfg *Config) Validate() error {
	return gencfg.Validate(cfg, gencfg.WithAdditionalChecks(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(Config)
		if _, err := ParseBackground(c.View.Background); err != nil {
			sl.ReportError(c.View.Background, "Background", "background", "color", "")
		}
	}))
}

// ParseBackground parses the background setting. Empty values
// and "none" give a PaintNone paint, meaning a transparent background.
func ParseBackground(s string) (svgicon.Paint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "transparent":
		return svgicon.Paint{Kind: svgicon.PaintNone}, nil
	}
	c, err := svgicon.ParseColor(s)
	if err != nil {
		return svgicon.Paint{}, fmt.Errorf("invalid background color %q: %w", s, err)
	}
	return svgicon.Paint{Kind: svgicon.PaintColor, Color: c}, nil
}

// ParseOptions returns the parser options matching the configuration.
func (pc ParseConfig) ParseOptions() ([]svgicon.Option, error) {
	mode, err := svgicon.ParseErrorMode(pc.ErrorMode)
	if err != nil {
		return nil, err
	}
	opts := []svgicon.Option{svgicon.WithErrorMode(mode)}
	if def := (svgpath.Size{W: pc.DefaultWidth, H: pc.DefaultHeight}); !def.IsEmpty() {
		opts = append(opts, svgicon.WithDefaultSize(def.W, def.H))
	}
	return opts, nil
}
