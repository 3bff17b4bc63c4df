package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"mdjs/common"
	"mdjs/style"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	StyleConfig struct {
		// preset name, path to style file or name of the file in user
		// configuration directory
		Name     string `yaml:"name" validate:"required"`
		Variable string `yaml:"variable" validate:"required,alphanum"`
	}

	SiteConfig struct {
		Name       string `yaml:"name"`
		ID         string `yaml:"id"`
		ScriptPath string `yaml:"script_path" sanitize:"assure_file_access"`
	}

	ContainerConfig struct {
		ID    string           `yaml:"id" validate:"required,alphanum"`
		Type  string           `yaml:"type" validate:"required,alpha"`
		Style style.Properties `yaml:"style"`
	}

	RenderConfig struct {
		Unsafe              bool                       `yaml:"unsafe"`
		HardWraps           bool                       `yaml:"hard_wraps"`
		EastAsianLineBreaks common.EastAsianLineBreaks `yaml:"east_asian_line_breaks"`
		HeadingIDs          bool                       `yaml:"heading_ids"`
		Attributes          bool                       `yaml:"attributes"`
		DebugComments       bool                       `yaml:"debug_comments"`
	}

	ExtensionsConfig struct {
		Table         bool `yaml:"table"`
		Strikethrough bool `yaml:"strikethrough"`
		Linkify       bool `yaml:"linkify"`
		TaskList      bool `yaml:"task_list"`
	}

	DocumentConfig struct {
		Style                 StyleConfig      `yaml:"style"`
		Site                  SiteConfig       `yaml:"site"`
		Container             ContainerConfig  `yaml:"container"`
		Render                RenderConfig     `yaml:"render"`
		Extensions            ExtensionsConfig `yaml:"extensions"`
		SummaryTitle          string           `yaml:"summary_title"`
		OutputNameTemplate    string           `yaml:"output_name_template"`
		FileNameTransliterate bool             `yaml:"file_name_transliterate"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// OutputNameTemplateFieldName is yaml name of DocumentConfig.OutputNameTemplate.
// Template must survive gencfg expansion untouched and is executed per
// document later.
const OutputNameTemplateFieldName TemplateFieldName = "output_name_template"

func processingOptions(extra ...func(*gencfg.ProcessingOptions)) []func(*gencfg.ProcessingOptions) {
	return append([]func(*gencfg.ProcessingOptions){gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName))}, extra...)
}

// decode overlays YAML data on cfg, fields not known to Config are errors.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

// check sanitizes and validates configuration.
func (cfg *Config) check() error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return err
	}
	if err := gencfg.Validate(cfg); err != nil {
		return err
	}
	// alphanum allows leading digit, rendered script uses both as identifiers
	if v := cfg.Document.Style.Variable; !style.IsIdentifier(v) {
		return fmt.Errorf("style variable %q is not a valid identifier", v)
	}
	if id := cfg.Document.Container.ID; !style.IsIdentifier(id) {
		return fmt.Errorf("container id %q is not a valid identifier", id)
	}
	if err := cfg.Document.Container.Style.Validate(); err != nil {
		return fmt.Errorf("container style: %w", err)
	}
	return nil
}

// LoadConfiguration expands embedded configuration template and overlays
// values from configuration file (if path is not empty) on top of it. Result
// is validated.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	data, err := gencfg.Process(ConfigTmpl, processingOptions(options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg := &Config{}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	if len(path) > 0 {
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded default configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, processingOptions()...)
}

// Dump returns cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
