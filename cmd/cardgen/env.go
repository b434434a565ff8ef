package main

import (
	"io"
	"os"
	"time"

	cardgen "github.com/alnah/go-cardgen"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	NewEngine func(backend string, opts cardgen.BrowserOptions) (cardgen.Engine, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		NewEngine: cardgen.NewEngine,
	}
}
