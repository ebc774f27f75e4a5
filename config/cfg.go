package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"anyhover/hover"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// ExcludeConfig describes a single exclusion, exactly one field must be set.
	ExcludeConfig struct {
		Literal string `yaml:"literal,omitempty"`
		Pattern string `yaml:"pattern,omitempty"`
	}

	TransformConfig struct {
		MediaFeature         hover.MediaFeature `yaml:"media_feature" validate:"gte=0,lte=1"`
		TransformNestedMedia bool               `yaml:"transform_nested_media"`
		MaxAncestorDepth     int                `yaml:"max_ancestor_depth" validate:"min=1,max=1000"`
		ExcludeSelectors     []ExcludeConfig    `yaml:"exclude_selectors"`
	}

	OutputConfig struct {
		Extension string `yaml:"extension" validate:"omitempty,startswith=."`
		Overwrite bool   `yaml:"overwrite"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Transform TransformConfig `yaml:"transform"`
		Output    OutputConfig    `yaml:"output"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

// Options converts transformation settings to rewriter options compiling
// exclusion patterns.
func (conf *TransformConfig) Options() (hover.Options, error) {
	opts := hover.Options{
		MediaFeature:         conf.MediaFeature,
		TransformNestedMedia: conf.TransformNestedMedia,
		MaxAncestorDepth:     conf.MaxAncestorDepth,
	}
	for i, e := range conf.ExcludeSelectors {
		m, err := e.matcher()
		if err != nil {
			return hover.Options{}, fmt.Errorf("exclude_selectors[%d]: %w", i, err)
		}
		opts.ExcludeSelectors = append(opts.ExcludeSelectors, m)
	}
	return opts, nil
}

func (e ExcludeConfig) matcher() (hover.Matcher, error) {
	switch {
	case len(e.Literal) > 0 && len(e.Pattern) > 0:
		return nil, fmt.Errorf("both literal %q and pattern %q specified", e.Literal, e.Pattern)
	case len(e.Literal) > 0:
		return hover.Literal(e.Literal), nil
	case len(e.Pattern) > 0:
		p, err := hover.NewPattern(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", e.Pattern, err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("neither literal nor pattern specified")
}

// checkConfig performs validations which could not be expressed with tags.
func checkConfig(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	for i, e := range cfg.Transform.ExcludeSelectors {
		if _, err := e.matcher(); err != nil {
			sl.ReportError(e, fmt.Sprintf("Transform.ExcludeSelectors[%d]", i), "ExcludeSelectors", "exclude", err.Error())
		}
	}
}

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
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
