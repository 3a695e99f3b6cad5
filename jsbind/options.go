package jsbind

import (
	"errors"

	"github.com/kvcore/scriptexec/script"
)

// moduleOptions holds configuration for a [Module] instance.
type moduleOptions struct {
	core *script.Core
}

// Option configures a [Module] instance.
type Option interface {
	applyOption(*moduleOptions) error
}

type optionFunc struct {
	fn func(*moduleOptions) error
}

func (o *optionFunc) applyOption(opts *moduleOptions) error { return o.fn(opts) }

// WithCore configures the [script.Core] the module dispatches commands
// through. Required; passing nil returns an error at construction.
func WithCore(c *script.Core) Option {
	return &optionFunc{fn: func(opts *moduleOptions) error {
		if c == nil {
			return errors.New("jsbind: core must not be nil")
		}
		opts.core = c
		return nil
	}}
}

func resolveOptions(opts []Option) (*moduleOptions, error) {
	cfg := &moduleOptions{}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o.applyOption(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.core == nil {
		return nil, errors.New("jsbind: core is required (use WithCore)")
	}
	return cfg, nil
}
