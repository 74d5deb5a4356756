package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLogConfig(t *testing.T) {
	config := DefaultLogConfig()

	if config.Level != INFO {
		t.Errorf("Expected Level=INFO, got %v", config.Level)
	}
	if !config.EnableConsole || !config.RedactSensitive {
		t.Errorf("Expected console logging with redaction, got %+v", config)
	}
	if config.OutputFile != "" {
		t.Errorf("Expected no log file by default, got %q", config.OutputFile)
	}
	if config.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected MaxFileSize=104857600, got %v", config.MaxFileSize)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		console bool
		file    bool
		want    string
	}{
		{"console only", true, false, "*logging.ConsoleLogger"},
		{"file only", false, true, "*logging.FileLogger"},
		{"console and file", true, true, "*logging.MultiLogger"},
		{"quiet", false, false, "*logging.NoOpLogger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultLogConfig()
			config.EnableConsole = tt.console
			if tt.file {
				config.OutputFile = filepath.Join(t.TempDir(), "chspool.log")
			}

			logger, err := NewLogger(config)
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			t.Cleanup(func() { logger.Close() })

			if got := fmt.Sprintf("%T", logger); got != tt.want {
				t.Errorf("logger type = %s, want %s", got, tt.want)
			}
			if tt.file {
				if _, err := os.Stat(config.OutputFile); err != nil {
					t.Errorf("log file not created: %v", err)
				}
			}
		})
	}
}

func TestNewLogger_InvalidPath(t *testing.T) {
	// A regular file where a directory is expected makes MkdirAll fail even
	// when the tests run as root.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	config := LogConfig{
		Level:      INFO,
		OutputFile: filepath.Join(blocker, "logs", "chspool.log"),
	}
	if _, err := NewLogger(config); err == nil {
		t.Error("Expected error for invalid path, got nil")
	}
}

func TestNewDebugLoggerWithTransport(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "chspool.log")
	config := LogConfig{
		Level:       INFO,
		OutputFile:  logPath,
		EnableDebug: true,
	}

	logger, transport, err := NewDebugLoggerWithTransport(config)
	if err != nil {
		t.Fatalf("NewDebugLoggerWithTransport() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	if transport == nil {
		t.Fatal("DebugTransport is nil")
	}

	// --debug raises the level so DEBUG lines reach the file
	logger.Debug("HTTP request")
	if entries := readEntries(t, logPath); len(entries) != 1 || entries[0].Level != "DEBUG" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestNewDebugLoggerWithTransport_NoDebug(t *testing.T) {
	config := LogConfig{Level: INFO}

	logger, transport, err := NewDebugLoggerWithTransport(config)
	if err != nil {
		t.Fatalf("NewDebugLoggerWithTransport() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	if transport != nil {
		t.Error("Expected nil DebugTransport when EnableDebug=false")
	}
}
