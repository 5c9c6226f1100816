package httputil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	bodies := map[string][]byte{
		"https://example.com/logo.png":  {0x89, 'P', 'N', 'G', 0, 1, 2},
		"https://example.com/empty.svg": {},
		"https://example.com/a?b=c":     []byte("query"),
	}
	for url, body := range bodies {
		if err := c.Set(url, body); err != nil {
			t.Fatalf("Set(%s): %v", url, err)
		}
	}
	for url, want := range bodies {
		got, ok, err := c.Get(url)
		if err != nil || !ok {
			t.Fatalf("Get(%s) = %v, %v", url, ok, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Get(%s) = %v, want %v", url, got, want)
		}
	}
}

func TestCacheMiss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	body, ok, err := c.Get("https://example.com/missing.png")
	if err != nil || ok || body != nil {
		t.Errorf("Get() = %v, %v, %v; want miss", body, ok, err)
	}
}

func TestCacheExpired(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Minute)
	url := "https://example.com/logo.png"
	if err := c.Set(url, []byte("old")); err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(c.path(url), old, old); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(url); ok || !errors.Is(err, ErrExpired) {
		t.Errorf("Get() = %v, %v; want ErrExpired", ok, err)
	}

	// Overwriting refreshes the entry.
	if err := c.Set(url, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if got, ok, _ := c.Get(url); !ok || string(got) != "new" {
		t.Errorf("Get() after refresh = %q, %v", got, ok)
	}
}

func TestCacheNoTTL(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	url := "https://example.com/logo.png"
	c.Set(url, []byte("x"))
	old := time.Now().Add(-365 * 24 * time.Hour)
	os.Chtimes(c.path(url), old, old)
	if _, ok, err := c.Get(url); !ok || err != nil {
		t.Errorf("Get() = %v, %v; a zero TTL never expires", ok, err)
	}
}

func TestCacheLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewCache(dir, time.Hour)
	for i := 0; i < 3; i++ {
		c.Set("https://example.com/logo.png", []byte("body"))
	}
	entries, _ := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestNewCacheDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}
	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	if want := filepath.Join(home, ".cache", "labelsheet", "http"); c.Dir() != want {
		t.Errorf("Dir() = %s, want %s", c.Dir(), want)
	}
}
