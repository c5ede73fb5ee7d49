package logging

import (
	"path/filepath"
	"testing"

	"gymbook/internal/config"
)

func TestNewDefaults(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{}, config.AppConfig{Name: "gymbook"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closer != nil {
		t.Errorf("stdout output should not return a closer")
	}
	if logger == nil {
		t.Fatal("expected a logger")
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gymbook.log")

	logger, closer, err := New(
		config.LoggingConfig{Level: "debug", Output: "file", FilePath: path},
		config.AppConfig{Name: "gymbook"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closer == nil {
		t.Fatal("file output must return a closer")
	}
	logger.Debug().Msg("hello")
	if err := closer.Close(); err != nil {
		t.Errorf("close log file: %v", err)
	}
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"}, config.AppConfig{})
	if err == nil {
		t.Fatal("expected error for file output without path")
	}
}
