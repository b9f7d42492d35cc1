// Package config loads firing-range settings and weapon definitions through viper
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: ORDNANCE_LOG_LEVEL overrides log.level
const EnvPrefix = "ORDNANCE"

// LogConfig selects the CLI logger
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	// File enables file logging; empty logs to the console
	File    string `json:"file" mapstructure:"file"`
	MaxSize int64  `json:"maxSize" mapstructure:"maxSize"`
}

// CatalogConfig selects the definition catalog backend
type CatalogConfig struct {
	Driver string `json:"driver" mapstructure:"driver"`
	// DSN is a file path for sqlite (empty is in-memory) or a connection string for postgres
	DSN string `json:"dsn" mapstructure:"dsn"`
}

// Point is a location in range coordinates
type Point struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	Z float64 `json:"z" mapstructure:"z"`
}

// TargetConfig places a dummy actor on the range
type TargetConfig struct {
	Name     string  `json:"name" mapstructure:"name"`
	Location Point   `json:"location" mapstructure:"location"`
	Health   float64 `json:"health" mapstructure:"health"`
	Armor    float64 `json:"armor" mapstructure:"armor"`
}

// RangeConfig drives the simulation
type RangeConfig struct {
	Tick     time.Duration `json:"tick" mapstructure:"tick"`
	Duration time.Duration `json:"duration" mapstructure:"duration"`
	Seed     uint64        `json:"seed" mapstructure:"seed"`
	// View is "plot" for the terminal view or "none" for a headless run
	View     string         `json:"view" mapstructure:"view"`
	Audio    bool           `json:"audio" mapstructure:"audio"`
	AudioOut string         `json:"audioOut" mapstructure:"audioOut"`
	Targets  []TargetConfig `json:"targets" mapstructure:"targets"`
}

// File is the full configuration document
type File struct {
	Log     LogConfig     `json:"log" mapstructure:"log"`
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`
	Range   RangeConfig   `json:"range" mapstructure:"range"`
	Weapons []Definition  `json:"weapons" mapstructure:"weapons"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSize", 10*1024*1024)

	v.SetDefault("catalog.driver", DriverSQLite)
	v.SetDefault("catalog.dsn", "")

	v.SetDefault("range.tick", "16ms")
	v.SetDefault("range.duration", "10s")
	v.SetDefault("range.seed", 1)
	v.SetDefault("range.view", ViewNone)
	v.SetDefault("range.audio", false)
	v.SetDefault("range.audioOut", "")
}

// New returns a viper instance with defaults and environment overrides, without a file
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (YAML, TOML or JSON by extension), applies defaults and environment
// overrides and validates the result. An empty path loads defaults only
func Load(path string) (*File, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	f, err := Decode(v)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// Decode unmarshals v into a File without validating it
func Decode(v *viper.Viper) (*File, error) {
	var f File
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&f, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	for i := range f.Weapons {
		f.Weapons[i].ApplyDefaults()
	}
	return &f, nil
}

// Weapon returns the definition called name
func (f *File) Weapon(name string) (Definition, bool) {
	for _, d := range f.Weapons {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Definition{}, false
}
