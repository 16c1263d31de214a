package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/constl/pkg"
)

// Version prints the embedded version.
type Version struct{}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(optionsFrom(ctx).Output,
		pkg.Name, strings.TrimSpace(pkg.Version))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
