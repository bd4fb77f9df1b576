// Package config is used to load the configuration file
package config

import (
	"fmt"
	"strings"

	"github.com/blacktop/pesyms/pkg/mdb"
	"github.com/blacktop/pesyms/pkg/symbols"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

type nmadd struct {
	TextSection string   `mapstructure:"text-section"`
	AliasSuffix []string `mapstructure:"alias-suffix"`
	JSON        bool     `mapstructure:"json"`
}

type syms struct {
	Demangle bool `mapstructure:"demangle"`
	All      bool `mapstructure:"all"`
}

// Config is the configuration struct
type Config struct {
	Verbose bool  `mapstructure:"verbose"`
	Color   bool  `mapstructure:"color"`
	Nmadd   nmadd `mapstructure:"nmadd"`
	Syms    syms  `mapstructure:"syms"`
}

func (c *Config) verify() error {
	var err error

	if c.Nmadd.TextSection == "" {
		c.Nmadd.TextSection = mdb.DefaultTextSection
	} else if strings.ContainsAny(c.Nmadd.TextSection, " \t\n") {
		err = multierror.Append(err, fmt.Errorf("text-section %q contains whitespace", c.Nmadd.TextSection))
	}

	if len(c.Nmadd.AliasSuffix) == 0 {
		c.Nmadd.AliasSuffix = symbols.DefaultAliasSuffixes
	}
	for i, suffix := range c.Nmadd.AliasSuffix {
		if strings.TrimSpace(suffix) == "" {
			err = multierror.Append(err, fmt.Errorf("alias-suffix[%d] is empty", i))
		}
	}

	return err
}

// Load unmarshals and verifies the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %w", err)
	}

	return &c, nil
}

// LoadConfig loads the configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}
