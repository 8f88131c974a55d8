// Package config loads and validates movie definitions.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thruflo/reel/internal/frame"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultFolder       = "pic/"
	DefaultFPS          = 12.0
	DefaultWidth        = 640
	DefaultHeight       = 480
	DefaultLoadParallel = 1
	DefaultRetries      = 2
	DefaultBackoffMs    = 100
)

// MovieFiles are the file names probed by Find, in order.
var MovieFiles = []string{"movie.yaml", "movie.yml", "movie.ini"}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		From:   0,
		To:     1,
		Step:   1,
		Folder: DefaultFolder,
		Grid:   frame.Grid{Width: 600, Height: 800, Rows: 1, Columns: 1},
		Loader: Loader{
			Path:    "img/loader4x4.png",
			Width:   40,
			Height:  40,
			Rows:    4,
			Columns: 4,
		},
		FPS:          DefaultFPS,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		LoadParallel: DefaultLoadParallel,
		Repeat:       true,
		PerformStop:  true,
		Verbose:      true,
		Retry: Retry{
			Attempts:  DefaultRetries,
			BackoffMs: DefaultBackoffMs,
		},
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

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Find returns the first movie file present in dir.
func Find(dir string) (string, error) {
	for _, name := range MovieFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no movie file (%s) in %s", strings.Join(MovieFiles, ", "), dir)
}

// LoadConfig reads a movie file. The format follows the extension: YAML for
// .yaml/.yml, INI for .ini. Missing fields keep their defaults. A relative
// folder is resolved against the movie file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("movie file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read movie file: %w", err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse movie file: %w", err)
		}
	case ".ini":
		if err := decodeINI(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse movie file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported movie file format: %s", path)
	}

	if cfg.Folder != "" && !isURL(cfg.Folder) && !filepath.IsAbs(cfg.Folder) {
		cfg.Folder = filepath.Join(filepath.Dir(path), cfg.Folder) + string(filepath.Separator)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// decodeINI maps the default section onto cfg, [grid], [loader] and [retry]
// onto the nested structs, and every [clip NAME] section onto a clip.
func decodeINI(data []byte, cfg *Config) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}
	if err := f.MapTo(cfg); err != nil {
		return err
	}

	for _, sec := range f.Sections() {
		name, ok := strings.CutPrefix(sec.Name(), "clip ")
		if !ok {
			continue
		}
		cfg.Clips = append(cfg.Clips, Clip{
			Name:    strings.TrimSpace(name),
			Start:   sec.Key("start").MustInt(0),
			End:     sec.Key("end").MustInt(0),
			PauseMs: sec.Key("pause_ms").MustInt(0),
		})
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if len(cfg.Images) == 0 && cfg.Sequence == "" {
		return ValidationError{Field: "images", Message: "either images or sequence is required"}
	}
	if cfg.Sequence != "" && cfg.Step < 1 {
		return ValidationError{Field: "step", Message: "must be positive"}
	}
	if !(cfg.FPS > 0) {
		return ValidationError{Field: "fps", Message: "must be positive"}
	}
	if cfg.Interval() <= 0 {
		return ValidationError{Field: "fps", Message: "too high for a tick interval"}
	}
	if cfg.LoadParallel < 1 {
		return ValidationError{Field: "load_parallel", Message: "must be at least 1"}
	}
	if cfg.Grid.Rows < 1 || cfg.Grid.Columns < 1 {
		return ValidationError{Field: "grid", Message: "rows and columns must be at least 1"}
	}
	if cfg.Grid.Width < 0 || cfg.Grid.Height < 0 {
		return ValidationError{Field: "grid", Message: "width and height must not be negative"}
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return ValidationError{Field: "width", Message: "width and height must not be negative"}
	}
	if cfg.ShowPreLoader && cfg.Loader.Frames() < 1 {
		return ValidationError{Field: "loader", Message: "rows and columns must be at least 1"}
	}
	if cfg.Retry.Attempts < 0 || cfg.Retry.BackoffMs < 0 {
		return ValidationError{Field: "retry", Message: "must not be negative"}
	}
	for _, c := range cfg.Clips {
		if c.Name == "" {
			return ValidationError{Field: "clips", Message: "clip name is required"}
		}
		if c.PauseMs < 0 {
			return ValidationError{Field: "clips", Message: fmt.Sprintf("clip %q has negative pause", c.Name)}
		}
	}
	return nil
}
