package config

import "time"

// Canvas is the default size for new sprites.
type Canvas struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Playback holds the initial animation settings.
type Playback struct {
	FPS  int    `yaml:"fps"`
	Mode string `yaml:"mode"`
}

// Autosave configures the coalescing writer.
type Autosave struct {
	DelayMS int `yaml:"delay_ms"`
}

// Delay returns DelayMS as a duration.
func (a Autosave) Delay() time.Duration {
	return time.Duration(a.DelayMS) * time.Millisecond
}

// Export holds defaults for pixl export.
type Export struct {
	Scale   int    `yaml:"scale"`
	Format  string `yaml:"format"`
	Columns int    `yaml:"columns,omitempty"`
}

// History bounds the working stack's undo depth.
type History struct {
	Limit int `yaml:"limit"`
}

// Config represents the .pixl/config.yaml file.
type Config struct {
	Canvas   Canvas   `yaml:"canvas"`
	Playback Playback `yaml:"playback"`
	Autosave Autosave `yaml:"autosave"`
	Export   Export   `yaml:"export"`
	History  History  `yaml:"history"`
}
