package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Config holds the parameters of a profiling session.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option modifies a [Config].
type Option func(*Config)

// New returns a Config with the given options applied.
func New(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Start begins profiling and returns a [Stopper] for ending it.
//
// If the pprof build tag is unset, or Mode is empty or unknown, Start returns
// a no-op Stopper. Both Start and Stop are always safely callable.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

// WithMode sets the profiler mode.
func WithMode(mode string) Option {
	return func(c *Config) { c.Mode = mode }
}

// WithPath sets the directory that receives profile output.
func WithPath(path string) Option {
	return func(c *Config) { c.Path = path }
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(c *Config) { c.Quiet = quiet }
}

type ignore struct{}

func (ignore) Stop() {}
