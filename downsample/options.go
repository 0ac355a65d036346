// SPDX-License-Identifier: MIT

package downsample

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/internal/zlog"
)

const (
	// DefaultTarget is the per-row total Counts reduces to.
	DefaultTarget = 20000

	// DefaultReplace samples counts with replacement.
	DefaultReplace = true
)

// Option configures Counts.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	seed    int64
	replace bool
	copy    bool
	logger  *zap.Logger
}

// WithSeed sets the base seed (default 0). Row i draws from rng.Derive(seed, i).
func WithSeed(seed int64) Option {
	return func(o *Options) { o.seed = seed }
}

// WithReplace chooses sampling with (true) or without (false) replacement.
func WithReplace(enabled bool) Option {
	return func(o *Options) { o.replace = enabled }
}

// WithCopy makes Counts work on a clone and leave the input untouched.
func WithCopy(enabled bool) Option {
	return func(o *Options) { o.copy = enabled }
}

// WithLogger sets the logger for the per-call summary.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func gatherOptions(opts ...Option) Options {
	o := Options{replace: DefaultReplace}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.logger = zlog.OrNop(o.logger)
	return o
}
