// Package config loads the septop configuration from defaults, an optional
// TOML file and SEPTOP_ environment variables.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/rmera/septop/top"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "SEPTOP"

// Config is the configuration of the septop command.
type Config struct {
	Output        OutputConfig   `mapstructure:"output"`
	Molecule      MoleculeConfig `mapstructure:"molecule"`
	Charge        ChargeConfig   `mapstructure:"charge"`
	Defines       []string       `mapstructure:"defines"` // symbols for #ifdef blocks
	Jobs          int            `mapstructure:"jobs"`    // files processed at the same time
	Substitutions []Substitution `mapstructure:"substitutions"`
}

// OutputConfig sets where the split files are written.
type OutputConfig struct {
	Dir       string `mapstructure:"dir"` // empty: next to the input file
	FFSuffix  string `mapstructure:"ff_suffix"`
	MolSuffix string `mapstructure:"mol_suffix"`
}

// MoleculeConfig sets how the molecule file is written.
type MoleculeConfig struct {
	InlineParams bool `mapstructure:"inline_params"`
	TypeComments bool `mapstructure:"type_comments"`
}

// ChargeConfig controls the charge redistribution.
type ChargeConfig struct {
	Redistribute bool    `mapstructure:"redistribute"`
	Target       float64 `mapstructure:"target"`
}

// Substitution replaces the dihedrals matching Types (X is a wildcard)
// with a dihedral of function Funct and parameters Params.
type Substitution struct {
	Types  []string  `mapstructure:"types"`
	Funct  int       `mapstructure:"funct"`
	Params []float64 `mapstructure:"params"`
}

// Pattern returns the types of s as the pattern taken by top.FF.SubstituteDihedral.
func (s Substitution) Pattern() [4]string {
	var p [4]string
	copy(p[:], s.Types)
	return p
}

func (s Substitution) String() string {
	return strings.Join(s.Types, " ")
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "")
	v.SetDefault("output.ff_suffix", ".ff.itp")
	v.SetDefault("output.mol_suffix", ".mol.itp")

	v.SetDefault("molecule.inline_params", false)
	v.SetDefault("molecule.type_comments", true)

	v.SetDefault("charge.redistribute", false)
	v.SetDefault("charge.target", 0.0)

	v.SetDefault("defines", []string{})
	v.SetDefault("jobs", 4)
}

// New returns a viper instance with the defaults set and the environment
// bound. If path is not empty, the TOML file is read too.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return v, nil
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads the configuration from the defaults, the TOML file path
// (if not empty) and the environment.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return errors.WithHint(errors.Newf("jobs must be >= 1, got %d", c.Jobs), "omit jobs for the default of 4")
	}
	if c.Output.FFSuffix == "" || c.Output.MolSuffix == "" {
		return errors.New("output.ff_suffix and output.mol_suffix cannot be empty")
	}
	if c.Output.FFSuffix == c.Output.MolSuffix {
		return errors.Newf("output.ff_suffix and output.mol_suffix must differ, both are %q", c.Output.FFSuffix)
	}
	for i, s := range c.Substitutions {
		if len(s.Types) != 4 {
			return errors.Newf("substitutions[%d]: a dihedral pattern needs 4 types, got %d", i, len(s.Types))
		}
		if s.Funct != 3 {
			return errors.WithHint(errors.Newf("substitutions[%d]: unsupported function %d", i, s.Funct), "only Ryckaert-Bellemans (function 3) dihedrals can be substituted")
		}
		if len(s.Params) != 6 {
			return errors.Newf("substitutions[%d]: function 3 takes 6 parameters, got %d", i, len(s.Params))
		}
	}
	return nil
}

// TopOptions returns the options for reading topologies.
func (c *Config) TopOptions() top.Options {
	return top.Options{
		Defines:            c.Defines,
		RedistributeCharge: c.Charge.Redistribute,
		TargetCharge:       c.Charge.Target,
	}
}

// MolOptions returns the options for writing molecule files.
func (c *Config) MolOptions() top.MolOptions {
	return top.MolOptions{
		InlineParams: c.Molecule.InlineParams,
		TypeComments: c.Molecule.TypeComments,
	}
}
