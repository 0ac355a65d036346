// SPDX-License-Identifier: MIT

package scale

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/internal/zlog"
)

// DefaultZeroCenter subtracts the column mean before scaling.
const DefaultZeroCenter = true

const panicClipInvalid = "scale: WithClipMax: value must not be NaN"

// Option configures Apply.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	zeroCenter bool
	clip       bool
	clipMax    float64
	copy       bool
	logger     *zap.Logger
}

// WithZeroCenter toggles mean subtraction (default DefaultZeroCenter).
func WithZeroCenter(enabled bool) Option {
	return func(o *Options) { o.zeroCenter = enabled }
}

// WithClipMax caps scaled values above v at v. There is no lower clip.
func WithClipMax(v float64) Option {
	if math.IsNaN(v) {
		panic(panicClipInvalid)
	}
	return func(o *Options) { o.clip, o.clipMax = true, v }
}

// WithCopy makes Apply work on a clone and leave the input untouched.
func WithCopy(enabled bool) Option {
	return func(o *Options) { o.copy = enabled }
}

// WithLogger sets the logger used for zero-variance notices.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func gatherOptions(opts ...Option) Options {
	o := Options{zeroCenter: DefaultZeroCenter}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.logger = zlog.OrNop(o.logger)
	return o
}
