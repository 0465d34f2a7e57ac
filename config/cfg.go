package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"tabstyle/colors"
	"tabstyle/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	InputConfig struct {
		// IANA name of forced CSV code page, detected when empty
		Encoding  string   `yaml:"encoding"`
		Delimiter string   `yaml:"delimiter" validate:"omitempty,len=1"`
		Nulls     []string `yaml:"nulls"`
	}

	OperationConfig struct {
		Op     common.ExprOp `yaml:"op" validate:"gte=0"`
		Column string        `yaml:"column,omitempty"`
		Arg    *float64      `yaml:"arg,omitempty"`
	}

	ExpressionConfig struct {
		Column string            `yaml:"column" validate:"required"`
		Ops    []OperationConfig `yaml:"ops" validate:"dive"`
		Alias  string            `yaml:"alias,omitempty"`
	}

	GradientConfig struct {
		Columns            []string          `yaml:"columns,omitempty" validate:"required_without=Expression,dive,required"`
		Expression         *ExpressionConfig `yaml:"expression,omitempty"`
		Color              *colors.Color     `yaml:"color,omitempty"`
		Palette            string            `yaml:"palette,omitempty" validate:"omitempty,oneof=reds blues greens viridis"`
		Colors             []colors.Color    `yaml:"colors,omitempty" validate:"omitempty,min=2"`
		VMin               *float64          `yaml:"vmin,omitempty"`
		VMax               *float64          `yaml:"vmax,omitempty"`
		TextColorThreshold *float64          `yaml:"text_color_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	}

	CellStyleConfig struct {
		Column string `yaml:"column" validate:"required"`
		Style  string `yaml:"style" validate:"required"`
	}

	StylingConfig struct {
		Precision    *int              `yaml:"precision,omitempty" validate:"omitempty,min=0,max=17"`
		TableClasses []string          `yaml:"table_classes" validate:"dive,required"`
		TheadClasses []string          `yaml:"thead_classes" validate:"dive,required"`
		Labels       map[string]string `yaml:"labels"`
		Gradients    []GradientConfig  `yaml:"gradients" validate:"dive"`
		Cells        []CellStyleConfig `yaml:"cells" validate:"dive"`
	}

	OutputConfig struct {
		Format       common.OutputFmt `yaml:"format" validate:"gte=0"`
		NameTemplate string           `yaml:"name_template"`
		PageTitle    string           `yaml:"page_title"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Input     InputConfig    `yaml:"input"`
		Styling   StylingConfig  `yaml:"styling"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above, values are templates
	// expanded per table at run time
	NameTemplateFieldName TemplateFieldName = "name_template"
	PageTitleFieldName    TemplateFieldName = "page_title"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(NameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(PageTitleFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
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

// Prepare generates configuration file from template and returns it as a byte
// slice.
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
