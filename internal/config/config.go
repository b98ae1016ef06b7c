// Package config loads flashdeck settings from flags, environment, an
// optional .env file and an optional YAML file.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Backend BackendConfig `koanf:"backend"`
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Study   StudyConfig   `koanf:"study"`
	Import  ImportConfig  `koanf:"import"`
}

// BackendConfig locates the flashcard collection the CLI talks to.
type BackendConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// ServerConfig is used by "flashdeck serve".
type ServerConfig struct {
	Addr           string   `koanf:"addr" validate:"required"`
	Database       string   `koanf:"database" validate:"required"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

type StudyConfig struct {
	// Seed fixes the shuffle order; 0 picks a random one.
	Seed uint64 `koanf:"seed"`
}

type ImportConfig struct {
	ReposDir string `koanf:"repos_dir" validate:"required"`
}
