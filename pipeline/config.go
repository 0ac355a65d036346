// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/katalvlaran/countprep/filter"
)

// EnvPrefix prefixes environment overrides of top-level keys.
const EnvPrefix = "COUNTPREP"

// Defaults for top-level keys.
const (
	DefaultSeed        = 0
	DefaultParallelism = 1
	DefaultChunkSize   = 0
)

// ErrStep is returned for a step that names zero or several operations,
// or whose parameters are inconsistent.
var ErrStep = errors.New("pipeline: invalid step")

// Config is a full recipe.
type Config struct {
	Seed        int64  `mapstructure:"seed"`
	Parallelism int    `mapstructure:"parallelism" validate:"gte=1"`
	ChunkSize   int    `mapstructure:"chunk_size" validate:"gte=0"`
	Steps       []Step `mapstructure:"steps" validate:"required,min=1,dive"`
}

// Step holds exactly one operation.
type Step struct {
	FilterCells                *filter.Criteria `mapstructure:"filter_cells"`
	FilterGenes                *filter.Criteria `mapstructure:"filter_genes"`
	NormalizePerCell           *NormalizeStep   `mapstructure:"normalize_per_cell"`
	NormalizeExcludingDominant *DominantStep    `mapstructure:"normalize_excluding_dominant"`
	Log1p                      *TransformStep   `mapstructure:"log1p"`
	Sqrt                       *TransformStep   `mapstructure:"sqrt"`
	Scale                      *ScaleStep       `mapstructure:"scale"`
	RegressOut                 *RegressStep     `mapstructure:"regress_out"`
	DownsampleCounts           *DownsampleStep  `mapstructure:"downsample_counts"`
	Subsample                  *SubsampleStep   `mapstructure:"subsample"`
	PCA                        *PCAStep         `mapstructure:"pca"`
}

// NormalizeStep mirrors pp.NormalizeConfig.
type NormalizeStep struct {
	TargetTotal float64  `mapstructure:"target_total" validate:"gte=0"`
	KeyNCounts  string   `mapstructure:"key_n_counts"`
	MinCounts   *float64 `mapstructure:"min_counts"`
	Layers      []string `mapstructure:"layers"`
	AllLayers   bool     `mapstructure:"all_layers"`
	UseRep      string   `mapstructure:"use_rep" validate:"omitempty,oneof=after X"`
}

// DominantStep configures normalization excluding dominant genes.
type DominantStep struct {
	MaxFraction  float64 `mapstructure:"max_fraction" validate:"gte=0,lte=1"`
	MultWithMean bool    `mapstructure:"mult_with_mean"`
}

// TransformStep configures log1p and sqrt. 0 inherits Config.ChunkSize.
type TransformStep struct {
	ChunkSize int `mapstructure:"chunk_size" validate:"gte=0"`
}

// ScaleStep configures column scaling. ZeroCenter defaults to true.
type ScaleStep struct {
	ZeroCenter *bool    `mapstructure:"zero_center"`
	ClipMax    *float64 `mapstructure:"clip_max"`
}

// RegressStep configures covariate regression. 0 inherits Config.Parallelism.
type RegressStep struct {
	Keys        []string `mapstructure:"keys" validate:"required,min=1,dive,required"`
	Parallelism int      `mapstructure:"parallelism" validate:"gte=0"`
}

// DownsampleStep configures count downsampling. Nil fields take the package
// defaults; Seed nil inherits Config.Seed.
type DownsampleStep struct {
	Target  *int64 `mapstructure:"target" validate:"omitempty,gte=0"`
	Replace *bool  `mapstructure:"replace"`
	Seed    *int64 `mapstructure:"seed"`
}

// SubsampleStep sets exactly one of Fraction or Count.
type SubsampleStep struct {
	Fraction *float64 `mapstructure:"fraction" validate:"omitempty,gte=0,lte=1"`
	Count    *int     `mapstructure:"count" validate:"omitempty,gte=0"`
	Seed     *int64   `mapstructure:"seed"`
}

// PCAStep configures PCA. 0 components means min(50, obs, vars).
type PCAStep struct {
	NComps int `mapstructure:"n_comps" validate:"gte=0"`
}

// Name returns the operation key of the step, or "" when none is set.
func (s Step) Name() string {
	names := s.names()
	if len(names) != 1 {
		return ""
	}
	return names[0]
}

func (s Step) names() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(s.FilterCells != nil, "filter_cells")
	add(s.FilterGenes != nil, "filter_genes")
	add(s.NormalizePerCell != nil, "normalize_per_cell")
	add(s.NormalizeExcludingDominant != nil, "normalize_excluding_dominant")
	add(s.Log1p != nil, "log1p")
	add(s.Sqrt != nil, "sqrt")
	add(s.Scale != nil, "scale")
	add(s.RegressOut != nil, "regress_out")
	add(s.DownsampleCounts != nil, "downsample_counts")
	add(s.Subsample != nil, "subsample")
	add(s.PCA != nil, "pca")
	return out
}

// Validate checks struct tags and the one-operation-per-step rule.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	for i, s := range c.Steps {
		if n := len(s.names()); n != 1 {
			return fmt.Errorf("step %d names %d operations: %w", i, n, ErrStep)
		}
		if err := s.validate(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, s.Name(), err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch {
	case s.FilterCells != nil:
		return s.FilterCells.Validate()
	case s.FilterGenes != nil:
		return s.FilterGenes.Validate()
	case s.Subsample != nil:
		if (s.Subsample.Fraction == nil) == (s.Subsample.Count == nil) {
			return fmt.Errorf("set exactly one of fraction or count: %w", ErrStep)
		}
	}
	return nil
}

// Load reads a recipe from path (format from the extension) with environment
// overrides, and validates it.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("pipeline: read %s: %w", path, err)
	}
	return decode(v)
}

// Parse reads a YAML recipe from r with environment overrides, and validates it.
func Parse(r io.Reader) (*Config, error) {
	v := newViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("pipeline: parse: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("seed", DefaultSeed)
	v.SetDefault("parallelism", DefaultParallelism)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("pipeline: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
