package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding the config file.
const EnvPrefix = "MAX2870"

// flagKeys maps config keys onto the command line flags that override them.
var flagKeys = map[string]string{
	"reference":          "ref",
	"output":             "output",
	"log_level":          "log-level",
	"timeout":            "timeout",
	"tolerance":          "tolerance",
	"ref_scale":          "ref-scale",
	"sweep.start":        "refstart",
	"sweep.steps":        "steps",
	"register.power":     "power",
	"register.aux_power": "aux-power",
	"register.aux_mode":  "aux-mode",
}

// LoadEnv reads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Overlay layers MAX2870_* environment variables and the changed flags of
// the set over conf. Flags win over the environment, which wins over the file.
func Overlay(conf *Config, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("reference", conf.Reference)
	v.SetDefault("output", conf.Output)
	v.SetDefault("log_level", conf.LogLevel)
	v.SetDefault("timeout", conf.Timeout)
	v.SetDefault("tolerance", conf.Tolerance)
	v.SetDefault("ref_scale", conf.RefScale)
	v.SetDefault("sweep.start", conf.Sweep.Start)
	v.SetDefault("sweep.steps", conf.Sweep.Steps)
	v.SetDefault("register.power", conf.Register.Power)
	v.SetDefault("register.aux_power", conf.Register.AuxPower)
	v.SetDefault("register.aux_mode", conf.Register.AuxMode)

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	merged := &Config{
		Reference: v.GetFloat64("reference"),
		Output:    v.GetString("output"),
		LogLevel:  v.GetString("log_level"),
		Timeout:   v.GetString("timeout"),
		Tolerance: v.GetFloat64("tolerance"),
		RefScale:  v.GetString("ref_scale"),
		Sweep: Sweep{
			Start: v.GetInt64("sweep.start"),
			Steps: v.GetInt64("sweep.steps"),
		},
		Register: Register{
			Power:    v.GetInt("register.power"),
			AuxPower: v.GetInt("register.aux_power"),
			AuxMode:  v.GetString("register.aux_mode"),
		},
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
