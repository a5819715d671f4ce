package app

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigReadsPrefixedEnvironment(t *testing.T) {
	cfg, err := LoadConfig(map[string]string{
		"CROSSWORD_DATA_DIR":                    "/tmp/xw",
		"CROSSWORD_ASCII":                       "true",
		"CROSSWORD_UI_STYLE":                    "newsprint",
		"CROSSWORD_UI_MOUSE":                    "scoped",
		"CROSSWORD_GAMEPLAY_INCORRECT_DELAY_MS": "2500",
		"DATA_DIR":                              "/ignored",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/xw" || !cfg.ASCIIOnly {
		t.Fatalf("unexpected top-level config %+v", cfg)
	}
	if cfg.UI.StyleVariant != "newsprint" || cfg.UI.MouseScope != "scoped" || cfg.UI.MotionLevel != "full" {
		t.Fatalf("unexpected ui config %+v", cfg.UI)
	}
	if cfg.incorrectDelay() != 2500*time.Millisecond {
		t.Fatalf("unexpected delay %v", cfg.incorrectDelay())
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	if _, err := LoadConfig(map[string]string{"CROSSWORD_ASCII": "maybe"}); err == nil {
		t.Fatalf("expected parse error for a bad bool")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad style", mutate: func(c *Config) { c.UI.StyleVariant = "neon" }, wantErr: "style"},
		{name: "bad motion", mutate: func(c *Config) { c.UI.MotionLevel = "wild" }, wantErr: "motion"},
		{name: "bad mouse", mutate: func(c *Config) { c.UI.MouseScope = "all" }, wantErr: "mouse"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log level"},
		{name: "negative delay", mutate: func(c *Config) { c.Gameplay.IncorrectDelayMS = -1 }, wantErr: "delay"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{UI: UIConfig{StyleVariant: " Retro_Terminal "}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.UI.StyleVariant != "retro_terminal" || cfg.UI.MotionLevel != "full" || cfg.UI.MouseScope != "full" {
		t.Fatalf("unexpected ui defaults %+v", cfg.UI)
	}
	if cfg.Gameplay.IncorrectDelayMS != 1500 || !strings.HasSuffix(cfg.DataDir, "crossword") {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestNormalizeMode(t *testing.T) {
	for raw, want := range map[string]Mode{"": ModeTUI, "tui": ModeTUI, "WEB": ModeWeb, "serve": ModeWeb} {
		if got := normalizeMode(raw); got != want {
			t.Fatalf("normalizeMode(%q) = %q, want %q", raw, got, want)
		}
	}
}
