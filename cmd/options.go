// Copyright © 2024 The ELPS authors

package cmd

import "github.com/luthersystems/klisp/lisp"

// Option configures an exported command factory (RunCommand, DocCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	runtimeOpts []lisp.Config
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithRuntimeConfig passes opts to every runtime a command creates.  They
// are applied after the command's own configuration so embedders can add
// builtins or override the logger.
func WithRuntimeConfig(opts ...lisp.Config) Option {
	return func(c *cmdConfig) { c.runtimeOpts = append(c.runtimeOpts, opts...) }
}
