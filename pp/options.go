// SPDX-License-Identifier: MIT

package pp

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/internal/zlog"
)

// Option configures a binding call.
type Option func(*Options)

// Options is the resolved configuration shared by every binding.
type Options struct {
	copy   bool
	logger *zap.Logger
}

// WithCopy operates on a copy of the dataset and returns it.
func WithCopy(enabled bool) Option {
	return func(o *Options) { o.copy = enabled }
}

// WithLogger sets the logger for step summaries.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func gatherOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.logger = zlog.OrNop(o.logger)
	return o
}
