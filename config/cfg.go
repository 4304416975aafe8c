package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"uxkit/chart"
	"uxkit/common"
	"uxkit/css"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ThresholdsConfig struct {
		Score     int `yaml:"score" validate:"min=1"`
		ClassLike int `yaml:"class_like" validate:"min=1"`
		Parts     int `yaml:"parts" validate:"min=1"`
	}

	CSSConfig struct {
		Parser       common.ParserMode `yaml:"parser"`
		Thresholds   ThresholdsConfig  `yaml:"thresholds"`
		Extensions   []string          `yaml:"extensions" validate:"dive,startswith=."`
		FailOnIssues bool              `yaml:"fail_on_issues"`
	}

	UXConfig struct {
		Extensions []string `yaml:"extensions" validate:"dive,startswith=."`
		// FailUnder is minimal acceptable score in percents, 0 disables the check.
		FailUnder int `yaml:"fail_under" validate:"min=0,max=100"`
	}

	ScaffoldConfig struct {
		Destination       string `yaml:"destination" sanitize:"path_clean" validate:"required"`
		ComponentTemplate string `yaml:"component_template"`
		IndexTemplate     string `yaml:"index_template"`
		ReadmeTemplate    string `yaml:"readme_template"`
	}

	ChartConfig struct {
		Options chart.Options    `yaml:",inline"`
		Kind    common.ChartKind `yaml:"kind"`
		PNG     bool             `yaml:"png"`
	}

	ReportConfig struct {
		Format common.ReportFormat `yaml:"format"`
		// NameEncoding is IANA name of encoding used for non UTF-8 names in zip archives.
		NameEncoding string `yaml:"name_encoding,omitempty"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		CSS       CSSConfig      `yaml:"css"`
		UX        UXConfig       `yaml:"ux"`
		Scaffold  ScaffoldConfig `yaml:"scaffold"`
		Chart     ChartConfig    `yaml:"chart"`
		Report    ReportConfig   `yaml:"report"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above, stub templates are expanded
	// by scaffolder, not during configuration processing
	ComponentTemplateFieldName TemplateFieldName = "component_template"
	IndexTemplateFieldName     TemplateFieldName = "index_template"
	ReadmeTemplateFieldName    TemplateFieldName = "readme_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(ComponentTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(IndexTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(ReadmeTemplateFieldName)),
)

// AnalyzerOptions converts configured values for css analyzer.
func (c *CSSConfig) AnalyzerOptions() css.Options {
	return css.Options{
		Parser: c.Parser,
		Thresholds: css.Thresholds{
			Score:     c.Thresholds.Score,
			ClassLike: c.Thresholds.ClassLike,
			Parts:     c.Thresholds.Parts,
		},
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are accepted, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration expands embedded configuration template to get defaults,
// superimposes values from the file at path (if any) and validates the result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
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

// Prepare returns expanded default configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
