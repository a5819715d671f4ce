package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"crossword/internal/telemetry"
	"crossword/internal/ui"
)

// EnvPrefix is prepended to every environment key, e.g. CROSSWORD_DATA_DIR.
const EnvPrefix = "CROSSWORD_"

// Config controls runtime behavior for the TUI and the web adapter.
type Config struct {
	DataDir    string         `env:"DATA_DIR"`
	LogPath    string         `env:"LOG"`
	LogLevel   string         `env:"LOG_LEVEL"`
	PuzzlePath string         `env:"PUZZLE"`
	ASCIIOnly  bool           `env:"ASCII"`
	Addr       string         `env:"ADDR"`
	Debug      bool           `env:"DEBUG"`
	Gameplay   GameplayConfig `envPrefix:"GAMEPLAY_"`
	UI         UIConfig       `envPrefix:"UI_"`
}

type GameplayConfig struct {
	// IncorrectDelayMS is how long checked-wrong marks stay on screen.
	IncorrectDelayMS int `env:"INCORRECT_DELAY_MS"`
}

type UIConfig struct {
	StyleVariant string `env:"STYLE"`
	MotionLevel  string `env:"MOTION"`
	MouseScope   string `env:"MOUSE"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Addr:     "127.0.0.1:8080",
		Gameplay: GameplayConfig{
			IncorrectDelayMS: 1500,
		},
		UI: UIConfig{
			MotionLevel: "full",
			MouseScope:  "full",
		},
	}
}

// LoadConfig overlays CROSSWORD_* environment values onto the defaults.
// environ replaces the process environment when non-nil.
func LoadConfig(environ map[string]string) (Config, error) {
	cfg := DefaultConfig()
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := telemetry.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Gameplay.IncorrectDelayMS < 0 {
		return fmt.Errorf("invalid incorrect delay %dms", c.Gameplay.IncorrectDelayMS)
	}
	if c.Gameplay.IncorrectDelayMS == 0 {
		c.Gameplay.IncorrectDelayMS = 1500
	}

	// An empty style means the saved theme, or the default when none is saved.
	c.UI.StyleVariant = strings.ToLower(strings.TrimSpace(c.UI.StyleVariant))
	if c.UI.StyleVariant != "" && !ui.ValidStyleVariant(c.UI.StyleVariant) {
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	switch c.UI.MouseScope {
	case "", "off", "scoped", "full":
	default:
		return fmt.Errorf("invalid ui mouse scope %q", c.UI.MouseScope)
	}
	if c.UI.MouseScope == "" {
		c.UI.MouseScope = "full"
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "crossword")
	}
	return nil
}

func (c Config) incorrectDelay() time.Duration {
	return time.Duration(c.Gameplay.IncorrectDelayMS) * time.Millisecond
}
