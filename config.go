package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/icexin/gocraft-pi/vector"
)

const (
	FlavorPi    = "minecraft-pi"
	FlavorJuice = "raspberry-juice"
)

type Config struct {
	Listen string `yaml:"listen"`
	DB     string `yaml:"db"`
	// Flavor picks how failures are reported: raspberry-juice answers Fail,
	// minecraft-pi stays silent and has no world.getBlocks.
	Flavor string `yaml:"flavor"`
	// Mux serves yamux streams instead of one session per socket.
	Mux bool `yaml:"mux"`
	// Journal is a directory for the compressed command journal. Empty
	// disables it.
	Journal string `yaml:"journal,omitempty"`
	// Spawn is where new entities appear, as "x,y,z".
	Spawn string `yaml:"spawn"`
}

func defaults() Config {
	return Config{
		Listen: ":4711",
		DB:     "gocraft.db",
		Flavor: FlavorJuice,
		Spawn:  "0.5,0,0.5",
	}
}

// LoadConfig reads the yaml file at path over the defaults. An empty path
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Flavor {
	case FlavorPi, FlavorJuice:
	default:
		return fmt.Errorf("unknown flavor %q, want %s or %s", c.Flavor, FlavorPi, FlavorJuice)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if _, err := c.SpawnPos(); err != nil {
		return err
	}
	return nil
}

func (c Config) SpawnPos() (vector.Vector, error) {
	v, err := vector.ParseAs(c.Spawn, vector.KindFloat)
	if err != nil {
		return vector.Vector{}, fmt.Errorf("bad spawn: %w", err)
	}
	return v, nil
}
