package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte

	//go:embed default/ccshrc
	defaultStartupData []byte
)

const (
	ConfigurationName = "config.yaml"
	StartupFileName   = "ccshrc"
)

type Configuration struct {
	configFs afero.Fs

	// Prompt shown before each line; \w expands to the working directory.
	Prompt string `json:"prompt" validate:"required"`

	// ColorPrompt renders the prompt in bold green.
	ColorPrompt bool `json:"color_prompt"`

	// HistoryFile is the readline history path, ~-expandable. Empty
	// disables persistence.
	HistoryFile string `json:"history_file"`

	// StartupFile names a file in the configuration directory that is
	// sourced before the first prompt.
	StartupFile string `json:"startup_file"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// OpenStartupFile opens the startup file for sourcing. Callers should treat
// a missing file as "nothing to source" rather than an error.
func (c *Configuration) OpenStartupFile() (afero.File, error) {
	return c.fs().Open(c.StartupFile)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the embedded default configuration, backed by an empty
// in-memory directory. Used when no configuration has been initialized.
func Default() *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewMemMapFs()
	return out
}
