package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SUMMARYEDIT"

// Config is the resolved runtime configuration.
type Config struct {
	DataDir  string
	DBPath   string
	InboxDir string
	// Autosave is a cron spec; empty disables autosave.
	Autosave string
	Coalesce bool
	LogLevel string
	LogJSON  bool
	LogFile  string
}

// Load reads .summaryedit.yaml from $SUMMARYEDIT_CONFIG_PATH or the working
// directory, then applies SUMMARYEDIT_* environment overrides. A missing
// config file is not an error.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith resolves the configuration through v, so callers can bind flags first.
func LoadWith(v *viper.Viper) (*Config, error) {
	home, _ := os.UserHomeDir()
	v.SetDefault("data_dir", filepath.Join(home, ".local", "share", "summaryedit"))
	v.SetDefault("db_path", "")
	v.SetDefault("inbox_dir", "")
	v.SetDefault("autosave", "@every 30s")
	v.SetDefault("history.coalesce", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")

	v.SetConfigName(".summaryedit") // .yaml is implicit
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(envPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DataDir:  expandHome(v.GetString("data_dir"), home),
		DBPath:   expandHome(v.GetString("db_path"), home),
		InboxDir: expandHome(v.GetString("inbox_dir"), home),
		Autosave: strings.TrimSpace(v.GetString("autosave")),
		Coalesce: v.GetBool("history.coalesce"),
		LogLevel: v.GetString("log.level"),
		LogJSON:  v.GetBool("log.json"),
		LogFile:  expandHome(v.GetString("log.file"), home),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "summaryedit.db")
	}
	if cfg.InboxDir == "" {
		cfg.InboxDir = filepath.Join(cfg.DataDir, "inbox")
	}
	return cfg, nil
}

func expandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}
