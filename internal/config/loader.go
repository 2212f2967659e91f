package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thruflo/pixl/internal/animation"
	"github.com/thruflo/pixl/internal/export"
	"github.com/thruflo/pixl/internal/sprite"
)

// Dir is the project directory holding config, palette and sprites.
const Dir = ".pixl"

// Default values for Config.
const (
	DefaultCanvasSize   = sprite.DefaultWidth
	DefaultFPS          = animation.DefaultFrameRate
	DefaultMode         = string(animation.ModeLoop)
	DefaultDelayMS      = 500
	DefaultExportScale  = 1
	DefaultExportFormat = string(export.FormatPNG)
	DefaultHistoryLimit = 50
	MaxCanvasSize       = 1024
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Canvas:   Canvas{Width: DefaultCanvasSize, Height: DefaultCanvasSize},
		Playback: Playback{FPS: DefaultFPS, Mode: DefaultMode},
		Autosave: Autosave{DelayMS: DefaultDelayMS},
		Export:   Export{Scale: DefaultExportScale, Format: DefaultExportFormat},
		History:  History{Limit: DefaultHistoryLimit},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Path returns the config file path under basePath.
func Path(basePath string) string {
	return filepath.Join(basePath, Dir, "config.yaml")
}

// LoadConfig reads and parses .pixl/config.yaml from the given base path.
// If the file doesn't exist, returns default config.
// Applies defaults for any missing fields.
func LoadConfig(basePath string) (*Config, error) {
	data, err := os.ReadFile(Path(basePath))
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WriteConfig validates cfg and writes it to .pixl/config.yaml.
func WriteConfig(basePath string, cfg *Config) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(basePath, Dir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(Path(basePath), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if cfg.Canvas.Width < 1 || cfg.Canvas.Width > MaxCanvasSize {
		return ValidationError{Field: "canvas.width", Message: fmt.Sprintf("must be between 1 and %d", MaxCanvasSize)}
	}
	if cfg.Canvas.Height < 1 || cfg.Canvas.Height > MaxCanvasSize {
		return ValidationError{Field: "canvas.height", Message: fmt.Sprintf("must be between 1 and %d", MaxCanvasSize)}
	}
	if cfg.Playback.FPS < animation.MinFrameRate || cfg.Playback.FPS > animation.MaxFrameRate {
		return ValidationError{Field: "playback.fps", Message: fmt.Sprintf("must be between %d and %d", animation.MinFrameRate, animation.MaxFrameRate)}
	}
	if !animation.PlaybackMode(cfg.Playback.Mode).Valid() {
		return ValidationError{Field: "playback.mode", Message: "must be one of loop, once, pingpong"}
	}
	if cfg.Autosave.DelayMS <= 0 {
		return ValidationError{Field: "autosave.delay_ms", Message: "must be positive"}
	}
	if cfg.Export.Scale < 1 {
		return ValidationError{Field: "export.scale", Message: "must be at least 1"}
	}
	if _, err := export.ParseFormat(cfg.Export.Format); err != nil {
		return ValidationError{Field: "export.format", Message: "must be one of png, svg, gif, sheet"}
	}
	if cfg.Export.Columns < 0 {
		return ValidationError{Field: "export.columns", Message: "must not be negative"}
	}
	if cfg.History.Limit < 1 {
		return ValidationError{Field: "history.limit", Message: "must be at least 1"}
	}
	return nil
}

// Palette maps color names to pixels.
type Palette map[string]sprite.Pixel

// Names returns the palette names in sorted order.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Color resolves ref as a palette name first, then as a hex color.
func (p Palette) Color(ref string) (sprite.Pixel, error) {
	if c, ok := p[ref]; ok {
		return c, nil
	}
	return sprite.ParseColor(ref)
}

// LoadPalette parses .pixl/palette into named colors.
// The file format is NAME=#rrggbb[aa] per line. Lines starting with # are
// comments. Empty lines are ignored.
func LoadPalette(basePath string) (Palette, error) {
	palettePath := filepath.Join(basePath, Dir, "palette")

	file, err := os.Open(palettePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(Palette), nil
		}
		return nil, fmt.Errorf("failed to open palette file: %w", err)
	}
	defer file.Close()

	pal := make(Palette)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first =
		idx := strings.Index(line, "=")
		if idx == -1 {
			return nil, fmt.Errorf("invalid palette line %d: missing '='", lineNum)
		}

		name := strings.TrimSpace(line[:idx])
		value := strings.Trim(strings.TrimSpace(line[idx+1:]), `"'`)

		if name == "" {
			return nil, fmt.Errorf("invalid palette line %d: empty name", lineNum)
		}
		c, err := sprite.ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("invalid palette line %d: %w", lineNum, err)
		}

		pal[name] = c
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}

	return pal, nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
