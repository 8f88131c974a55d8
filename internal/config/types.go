package config

import (
	"time"

	"github.com/thruflo/reel/internal/frame"
)

// Loader describes the preloader sprite shown while images load.
type Loader struct {
	Path    string `yaml:"path" json:"path" ini:"path"`
	Width   int    `yaml:"width" json:"width" ini:"width"`
	Height  int    `yaml:"height" json:"height" ini:"height"`
	Rows    int    `yaml:"rows" json:"rows" ini:"rows"`
	Columns int    `yaml:"columns" json:"columns" ini:"columns"`
}

// Frames returns the number of animation cells in the loader sprite.
func (l Loader) Frames() int {
	return l.Rows * l.Columns
}

// Clip is a clip declared in the movie file.
type Clip struct {
	Name    string `yaml:"name" json:"name"`
	Start   int    `yaml:"start" json:"start"`
	End     int    `yaml:"end" json:"end"`
	PauseMs int    `yaml:"pause_ms" json:"pause"`
}

// Pause returns the clip's trailing pause.
func (c Clip) Pause() time.Duration {
	return time.Duration(c.PauseMs) * time.Millisecond
}

// Retry controls how failed image fetches are retried before the image is
// given up on.
type Retry struct {
	Attempts  int `yaml:"attempts" json:"attempts" ini:"attempts"`
	BackoffMs int `yaml:"backoff_ms" json:"backoffMs" ini:"backoff_ms"`
}

// Backoff returns the delay before the first retry.
func (r Retry) Backoff() time.Duration {
	return time.Duration(r.BackoffMs) * time.Millisecond
}

// Config is the movie definition, read from movie.yaml or movie.ini.
// JSON keys double as option names for GetOption and SetOption.
type Config struct {
	Images   []string `yaml:"images" json:"images" ini:"images" delim:","`
	Sequence string   `yaml:"sequence" json:"sequence" ini:"sequence"`
	From     int      `yaml:"from" json:"from" ini:"from"`
	To       int      `yaml:"to" json:"to" ini:"to"`
	Step     int      `yaml:"step" json:"step" ini:"step"`
	Folder   string   `yaml:"folder" json:"folder" ini:"folder"`

	Grid   frame.Grid `yaml:"grid" json:"grid" ini:"grid"`
	Loader Loader     `yaml:"loader" json:"loader" ini:"loader"`

	FPS          float64 `yaml:"fps" json:"fps" ini:"fps"`
	Width        int     `yaml:"width" json:"width" ini:"width"`
	Height       int     `yaml:"height" json:"height" ini:"height"`
	LoadParallel int     `yaml:"load_parallel" json:"loadParallel" ini:"load_parallel"`

	Repeat        bool `yaml:"repeat" json:"repeat" ini:"repeat"`
	PlayOnLoad    bool `yaml:"play_on_load" json:"playOnLoad" ini:"play_on_load"`
	PerformStop   bool `yaml:"perform_stop" json:"performStop" ini:"perform_stop"`
	PlayBackwards bool `yaml:"play_backwards" json:"playBackwards" ini:"play_backwards"`
	ShowPreLoader bool `yaml:"show_preloader" json:"showPreLoader" ini:"show_preloader"`
	Verbose       bool `yaml:"verbose" json:"verbose" ini:"verbose"`

	Clips []Clip `yaml:"clips,omitempty" json:"clips" ini:"-"`
	Retry Retry  `yaml:"retry" json:"retry" ini:"retry"`
}

// Interval returns the time between playback ticks.
func (c *Config) Interval() time.Duration {
	if c.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.FPS)
}

// Clone returns a deep copy so players never share mutable configuration.
func (c *Config) Clone() *Config {
	out := *c
	if c.Images != nil {
		out.Images = append([]string(nil), c.Images...)
	}
	if c.Clips != nil {
		out.Clips = append([]Clip(nil), c.Clips...)
	}
	return &out
}
