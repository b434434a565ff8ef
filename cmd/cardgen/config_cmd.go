package main

import (
	"fmt"

	"github.com/alnah/go-cardgen/internal/yamlutil"
)

// runConfig prints the effective configuration (file, env and defaults
// merged) as YAML.
func runConfig(args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("config")
	addCommonFlags(fs, &common)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, err := loadSettings(&common)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
