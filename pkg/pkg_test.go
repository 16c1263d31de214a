package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "constl"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	if Description == "" {
		t.Error("Expected Description to be non-empty")
	}
}

func TestVersion(t *testing.T) {
	// Tests run in the package directory, next to the embedded file.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew"
	}) {
		t.Errorf("Expected Author to contain %q", "ardnew")
	}
}

func TestAuthorStruct(t *testing.T) {
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPaths(t *testing.T) {
	if got := ConfigPath("config"); got != filepath.Join(ConfigDir(), "config") {
		t.Errorf("unexpected config path %q", got)
	}

	if got := CachePath("history"); got != filepath.Join(CacheDir(), "history") {
		t.Errorf("unexpected cache path %q", got)
	}

	if ConfigPath() != ConfigDir() {
		t.Errorf("ConfigPath() should equal ConfigDir()")
	}
}

func TestPrefixOf(t *testing.T) {
	tests := map[string]string{
		"/usr/bin/constl":         "constl",
		"constl.exe":              "constl",
		"/tmp/.hidden":            "hidden",
		"/tmp/__debug_bin3284712": Name,
		"../bin/my-tool.v2":       "my-tool",
	}

	for exe, want := range tests {
		if got := prefixOf(exe); got != want {
			t.Errorf("prefixOf(%q) = %q, want %q", exe, got, want)
		}
	}
}

func TestEnvName(t *testing.T) {
	want := strings.ToUpper(strings.ReplaceAll(Prefix(), "-", "_")) + "_CACHE_DIR"
	if got := EnvName("CACHE_DIR"); got != want {
		t.Errorf("EnvName = %q, want %q", got, want)
	}
}

func TestUserDir(t *testing.T) {
	key := "TEST_DIR"

	t.Setenv(EnvName(key), "/override")

	if got := userDir(key, os.UserCacheDir, ".cache"); got != "/override" {
		t.Errorf("expected override, got %q", got)
	}

	t.Setenv(EnvName(key), "")

	platform := func() (string, error) { return "/platform", nil }
	if got := userDir(key, platform, ".cache"); got != filepath.Join("/platform", Prefix()) {
		t.Errorf("expected platform dir, got %q", got)
	}
}
