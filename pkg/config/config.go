// Package config loads CLI settings from flags, environment, an optional
// YAML file and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Beastly713/sharesplit/pkg/logging"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Name is used for the config file name and the env prefix.
	Name = "sharesplit"

	OutputText = "text"
	OutputJSON = "json"
)

// Keys shared by flags, env and the config file.
const (
	KeyShares     = "shares"
	KeyThreshold  = "threshold"
	KeyHeaderless = "headerless"
	KeyOutput     = "output"
	KeyLogLevel   = "log-level"
	KeyLogFile    = "log-file"
)

// Config holds the resolved settings.
type Config struct {
	// Shares is the default number of shares for split
	Shares int `mapstructure:"shares"`

	// Threshold is the default number of shares required to recover
	Threshold int `mapstructure:"threshold"`

	// Headerless writes bare tokens with no banner
	Headerless bool `mapstructure:"headerless"`

	// Output is text or json
	Output string `mapstructure:"output"`

	LogLevel string `mapstructure:"log-level"`
	LogFile  string `mapstructure:"log-file"`

	// ConfigFileUsed is the file that was read, empty if none
	ConfigFileUsed string `mapstructure:"-"`
}

// Loader resolves a Config. The zero value is not usable; see NewLoader.
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewLoader returns a Loader reading files from fs.
func NewLoader(fs afero.Fs) *Loader {
	v := viper.New()
	v.SetFs(fs)

	v.SetDefault(KeyShares, 5)
	v.SetDefault(KeyThreshold, 3)
	v.SetDefault(KeyHeaderless, false)
	v.SetDefault(KeyOutput, OutputText)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, fs: fs}
}

// BindFlags makes the named flags override every other source when they
// were set on the command line.
func (l *Loader) BindFlags(flags *pflag.FlagSet, keys ...string) error {
	for _, key := range keys {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return nil
}

// Load reads configFile, or searches $HOME and the working directory for
// .sharesplit.yaml when configFile is empty. A missing file in the search
// locations is not an error; a missing explicit file is.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		if filepath.Ext(configFile) == "" {
			l.v.SetConfigType("yaml")
		}
	} else {
		l.v.SetConfigName("." + Name)
		l.v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(home)
		}
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ConfigFileUsed = l.v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be deferred to the split call.
// Share counts are validated by the splitter itself.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.Output, OutputText, OutputJSON)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
