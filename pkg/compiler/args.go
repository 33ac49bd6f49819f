package compiler

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"

	errUtils "github.com/cloudposse/capnp-import/errors"
)

// SplitArgs splits a shell-quoted argument string the way a POSIX shell would,
// expanding environment variables. An empty string yields no arguments.
func SplitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields, err := shell.Fields(s, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: compiler.args %q: %w", errUtils.ErrInvalidConfig, s, err)
	}
	return fields, nil
}
