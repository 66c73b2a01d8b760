package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("uses explicit path", func(t *testing.T) {
		d, err := New("/tmp/claimlens-test")
		if err != nil {
			t.Fatal(err)
		}
		if d.Path() != "/tmp/claimlens-test" {
			t.Errorf("got %s", d.Path())
		}
	})

	t.Run("defaults under the user home", func(t *testing.T) {
		d, err := New("")
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(d.Path()) != DefaultDirName {
			t.Errorf("got %s", d.Path())
		}
	})
}

func TestPaths(t *testing.T) {
	d, _ := New("/x")
	if d.UploadsPath() != filepath.Join("/x", "uploads") {
		t.Errorf("got %s", d.UploadsPath())
	}
	if d.ExportsPath() != filepath.Join("/x", "exports") {
		t.Errorf("got %s", d.ExportsPath())
	}
	if d.ConfigPath() != filepath.Join("/x", "config.yaml") {
		t.Errorf("got %s", d.ConfigPath())
	}
}

func TestEnsureExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "home")
	d, _ := New(root)

	if d.Exists() {
		t.Fatal("home should not exist yet")
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatal(err)
	}
	if !d.Exists() {
		t.Error("home should exist")
	}
	for _, p := range []string{d.UploadsPath(), d.ExportsPath()} {
		fi, err := os.Stat(p)
		if err != nil || !fi.IsDir() {
			t.Errorf("expected directory %s", p)
		}
	}
	if d.ConfigExists() {
		t.Error("no config should exist yet")
	}
}
