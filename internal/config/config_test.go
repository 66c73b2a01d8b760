package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend.URL != "http://localhost:5000" {
		t.Errorf("got backend url %s", cfg.Backend.URL)
	}
	if cfg.Extractor.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected api key placeholder")
	}
	if !cfg.Progress.Simulate {
		t.Error("expected simulation on by default")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("got server port %s", cfg.Server.Port)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_EXTRACTOR_KEY", "secret123")
		defer os.Unsetenv("TEST_EXTRACTOR_KEY")

		result := ResolveEnvVars("${TEST_EXTRACTOR_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
backend:
  url: http://extractor.internal:9000
progress:
  simulate: false
server:
  port: "3000"
`
		if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
			t.Fatal(err)
		}

		cm, err := NewManager(configFile)
		if err != nil {
			t.Fatal(err)
		}

		cfg := cm.Get()
		if cfg.Backend.URL != "http://extractor.internal:9000" {
			t.Errorf("got %s", cfg.Backend.URL)
		}
		if cfg.Progress.Simulate {
			t.Error("expected simulation disabled")
		}
		if cfg.Server.Port != "3000" {
			t.Errorf("got %s", cfg.Server.Port)
		}
		// Unset keys keep their defaults
		if cfg.Extractor.ContainerName != "claimlens-extractor" {
			t.Errorf("got %s", cfg.Extractor.ContainerName)
		}
	})

	t.Run("missing config file falls back to defaults", func(t *testing.T) {
		cm, err := NewManager("")
		if err != nil {
			t.Fatal(err)
		}
		if cm.Get().Backend.URL == "" {
			t.Error("expected a default backend url")
		}
	})
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# claimlens configuration") {
		t.Error("expected comment header")
	}
	if !strings.Contains(content, "${OPENAI_API_KEY}") {
		t.Error("expected api key placeholder in written config")
	}

	// The written file must load back cleanly.
	cm, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if cm.Get().Extractor.Image != "claimlens/extractor:latest" {
		t.Errorf("got %s", cm.Get().Extractor.Image)
	}
}
