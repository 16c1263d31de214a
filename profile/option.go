//go:build pprof

package profile

import "github.com/pkg/profile"

// control accumulates the github.com/pkg/profile options for a session.
type control []func(*profile.Profile)

// controlFrom translates c into profile options. It reports false if the
// mode is not recognized.
func controlFrom(c Config) (control, bool) {
	fn, ok := mode[c.Mode]
	if !ok {
		return nil, false
	}

	ctl := control{fn}

	if c.Path != "" {
		ctl = append(ctl, profile.ProfilePath(c.Path))
	}

	if c.Quiet {
		ctl = append(ctl, profile.Quiet)
	}

	return ctl, true
}
