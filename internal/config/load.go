package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/flashdeck/internal/validate"
)

const (
	// EnvPrefix marks variables read by Load; "__" separates nesting levels,
	// so FLASHDECK_BACKEND__URL sets backend.url.
	EnvPrefix = "FLASHDECK_"

	defaultConfigFile = "flashdeck.yaml"
	dotEnvFile        = ".env"
)

// RegisterFlags adds every setting to flags. Flag defaults are the lowest
// precedence source.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", defaultConfigFile, "Path to a YAML config file")
	flags.String("backend.url", "http://localhost:3000", "Base URL of the flashcard server")
	flags.Duration("backend.timeout", 10*time.Second, "Timeout for each request to the flashcard server")
	flags.String("server.addr", ":3000", "Listen address for serve")
	flags.String("server.database", "flashdeck.db", "Path to the SQLite database file for serve")
	flags.StringSlice("server.allowed_origins", nil, "Origins allowed to call the server from a browser")
	flags.String("log.level", "info", "Log level: debug, info, warn or error")
	flags.String("log.format", "text", "Log format: text or json")
	flags.Uint64("study.seed", 0, "Shuffle seed for study sessions (0 = random)")
	flags.String("import.repos_dir", "repos", "Directory for git checkouts made by import")
}

// Load merges, in increasing precedence, flag defaults, the YAML file,
// .env, FLASHDECK_ environment variables and flags set on the command line.
// flags must already be parsed.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, _ := flags.GetString("config")
	if path != "" {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		case errors.Is(statErr, fs.ErrNotExist) && !flags.Changed("config"):
			// The default file is optional.
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, statErr)
		}
	}

	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
