package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DirMode is the permission mode used when creating the configuration and
// cache directories.
const DirMode os.FileMode = 0o700

// debugBinary is the base name prefix of binaries built by dlv.
const debugBinary = "__debug_bin"

// Prefix is the name of the running executable without extension or leading
// dots, or [Name] under the debugger. It names the configuration and cache
// directories and prefixes their environment overrides.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	return prefixOf(exe)
})

func prefixOf(exe string) string {
	base := strings.TrimLeft(filepath.Base(exe), ".")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if strings.HasPrefix(base, debugBinary) {
		return Name
	}

	return base
}

// ConfigDir returns the directory holding the configuration file. It is
// $<PREFIX>_CONFIG_DIR if set, otherwise Prefix under the user configuration
// directory.
func ConfigDir() string {
	return userDir("CONFIG_DIR", os.UserConfigDir, ".config")
}

// CacheDir returns the directory holding transient files such as the REPL
// history and profiles. It is $<PREFIX>_CACHE_DIR if set, otherwise Prefix
// under the user cache directory.
func CacheDir() string {
	return userDir("CACHE_DIR", os.UserCacheDir, ".cache")
}

// userDir resolves a per-user directory for Prefix. Without an environment
// override or the platform directory, it falls back to home/dot, then to the
// working directory.
func userDir(env string, platform func() (string, error), dot string) string {
	if dir := os.Getenv(EnvName(env)); dir != "" {
		return dir
	}

	if dir, err := platform(); err == nil {
		return filepath.Join(dir, Prefix())
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, dot, Prefix())
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, Prefix())
	}

	return Prefix()
}

// EnvName returns the environment variable name for key, qualified by
// Prefix, such as CONSTL_CONFIG_DIR.
func EnvName(key string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(Prefix()) + "_" + key)
}

// ConfigPath joins elem onto [ConfigDir].
func ConfigPath(elem ...string) string {
	return filepath.Join(append([]string{ConfigDir()}, elem...)...)
}

// CachePath joins elem onto [CacheDir].
func CachePath(elem ...string) string {
	return filepath.Join(append([]string{CacheDir()}, elem...)...)
}

// MkdirAll creates the configuration and cache directories if they do not
// already exist.
func MkdirAll() error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return err
		}
	}

	return nil
}
