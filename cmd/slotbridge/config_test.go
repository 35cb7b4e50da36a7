package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/wippyai/slotbridge/errors"
)

func TestLoadConfig_Defaults(t *testing.T) {
	root := newRootCmd()
	cfg, err := loadConfig(root.PersistentFlags(), "")
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	if cfg.Log != want.Log || cfg.Scene != "" || cfg.MemoryLimitPages != 0 {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slotbridge.toml")
	file := `
scene = "from-file.toml"
memory_limit_pages = 16

[log]
level = "info"
format = "json"
`
	if err := os.WriteFile(path, []byte(file), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SLOTBRIDGE_LOG_LEVEL", "debug")

	root := newRootCmd()
	if err := root.PersistentFlags().Set("scene", "from-flag.toml"); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(root.PersistentFlags(), path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Scene != "from-flag.toml" {
		t.Errorf("scene = %q, want flag value", cfg.Scene)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want env value", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log.format = %q, want file value", cfg.Log.Format)
	}
	if cfg.MemoryLimitPages != 16 {
		t.Errorf("memory_limit_pages = %d, want 16", cfg.MemoryLimitPages)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	root := newRootCmd()
	_, err := loadConfig(root.PersistentFlags(), filepath.Join(t.TempDir(), "nope.toml"))
	if errors.KindOf(err) != errors.KindInvalidData {
		t.Errorf("err = %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		cfg     LogConfig
		level   zapcore.Level
		wantErr bool
	}{
		{LogConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel, false},
		{LogConfig{Level: "error", Format: "json"}, zapcore.ErrorLevel, false},
		{LogConfig{Level: "warn"}, zapcore.WarnLevel, false},
		{LogConfig{Level: "loud", Format: "console"}, 0, true},
		{LogConfig{Level: "info", Format: "xml"}, 0, true},
	}
	for _, tt := range tests {
		log, err := newLogger(tt.cfg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%+v: expected error", tt.cfg)
			}
			continue
		}
		if err != nil {
			t.Errorf("%+v: %v", tt.cfg, err)
			continue
		}
		if !log.Core().Enabled(tt.level) || log.Core().Enabled(tt.level-1) {
			t.Errorf("%+v: wrong level", tt.cfg)
		}
	}
}
