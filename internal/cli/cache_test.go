package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "labelsheet")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(xdg, "labelsheet") {
		t.Errorf("cacheDir() = %q, want under %q", dir, xdg)
	}
}

func TestArtifactDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := &CLI{}
	dir, err := c.artifactDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(dir, filepath.Join("labelsheet", "artifacts")) {
		t.Errorf("artifactDir() = %q", dir)
	}

	c.Config.Cache.Dir = "/srv/labels"
	if dir, _ := c.artifactDir(); dir != "/srv/labels" {
		t.Errorf("artifactDir() = %q, want configured dir", dir)
	}
}

func TestBackendName(t *testing.T) {
	c := &CLI{}
	if got := c.backendName(); got != "file" {
		t.Errorf("backendName() = %q, want file", got)
	}
	c.Config.Cache.Backend = "redis"
	if got := c.backendName(); got != "redis" {
		t.Errorf("backendName() = %q, want redis", got)
	}
}
