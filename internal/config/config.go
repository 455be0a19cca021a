package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yml"

// типы хранилища
const (
	RepoInMemory = "inmemory"
	RepoPostgres = "postgres"
	RepoBadger   = "badger"
	RepoSQLite   = "sqlite"
)

// EnvPrefix - префикс переменных окружения: TODO_SERVER_PORT перекрывает server.port
const EnvPrefix = "TODO"

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Badger     BadgerConfig     `yaml:"badger"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Overdue    OverdueConfig    `yaml:"overdue"`
	Confirm    ConfirmConfig    `yaml:"confirm"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimitRPM    int           `yaml:"rate_limit_rpm"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int           `yaml:"max_connections"`
	MinConnections int           `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	Migrate        bool          `yaml:"migrate"`
}

type BadgerConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // inmemory, postgres, badger или sqlite
}

type OverdueConfig struct {
	// 0 отключает фоновую проверку
	SweepInterval time.Duration `yaml:"sweep_interval"`
	BatchSize     int           `yaml:"batch_size"`
}

type ConfirmConfig struct {
	PromptTTL time.Duration `yaml:"prompt_ttl"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "localhost",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimitRPM:    100,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			MaxConnections: 10,
			MinConnections: 2,
			IdleTimeout:    5 * time.Minute,
			Migrate:        true,
		},
		Badger: BadgerConfig{
			Path: "data/badger",
		},
		SQLite: SQLiteConfig{
			Path: "data/todo.db",
		},
		Repository: RepositoryConfig{
			Type: RepoInMemory,
		},
		Overdue: OverdueConfig{
			BatchSize: 100,
		},
		Confirm: ConfirmConfig{
			PromptTTL: 5 * time.Minute,
		},
	}
}

// Load читает YAML поверх значений по умолчанию и применяет переменные окружения.
// Отсутствующий файл не ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	overrides := map[string]func(*viper.Viper, string){
		"server.port":              func(v *viper.Viper, k string) { cfg.Server.Port = v.GetString(k) },
		"server.host":              func(v *viper.Viper, k string) { cfg.Server.Host = v.GetString(k) },
		"server.read_timeout":      func(v *viper.Viper, k string) { cfg.Server.ReadTimeout = v.GetDuration(k) },
		"server.write_timeout":     func(v *viper.Viper, k string) { cfg.Server.WriteTimeout = v.GetDuration(k) },
		"server.shutdown_timeout":  func(v *viper.Viper, k string) { cfg.Server.ShutdownTimeout = v.GetDuration(k) },
		"server.rate_limit_rpm":    func(v *viper.Viper, k string) { cfg.Server.RateLimitRPM = v.GetInt(k) },
		"server.cors_origins":      func(v *viper.Viper, k string) { cfg.Server.CORSOrigins = splitList(v.GetString(k)) },
		"database.url":             func(v *viper.Viper, k string) { cfg.Database.URL = v.GetString(k) },
		"database.max_connections": func(v *viper.Viper, k string) { cfg.Database.MaxConnections = v.GetInt(k) },
		"database.min_connections": func(v *viper.Viper, k string) { cfg.Database.MinConnections = v.GetInt(k) },
		"database.idle_timeout":    func(v *viper.Viper, k string) { cfg.Database.IdleTimeout = v.GetDuration(k) },
		"database.migrate":         func(v *viper.Viper, k string) { cfg.Database.Migrate = v.GetBool(k) },
		"badger.path":              func(v *viper.Viper, k string) { cfg.Badger.Path = v.GetString(k) },
		"badger.in_memory":         func(v *viper.Viper, k string) { cfg.Badger.InMemory = v.GetBool(k) },
		"sqlite.path":              func(v *viper.Viper, k string) { cfg.SQLite.Path = v.GetString(k) },
		"logging.development":      func(v *viper.Viper, k string) { cfg.Logging.Development = v.GetBool(k) },
		"repository.type":          func(v *viper.Viper, k string) { cfg.Repository.Type = v.GetString(k) },
		"overdue.sweep_interval":   func(v *viper.Viper, k string) { cfg.Overdue.SweepInterval = v.GetDuration(k) },
		"overdue.batch_size":       func(v *viper.Viper, k string) { cfg.Overdue.BatchSize = v.GetInt(k) },
		"confirm.prompt_ttl":       func(v *viper.Viper, k string) { cfg.Confirm.PromptTTL = v.GetDuration(k) },
	}

	for key, apply := range overrides {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("переменная окружения для %s: %w", key, err)
		}
		if v.IsSet(key) {
			apply(v, key)
		}
	}
	return nil
}

func splitList(raw string) []string {
	var res []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepoInMemory, RepoBadger, RepoSQLite:
	case RepoPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url обязателен для repository.type=%s", RepoPostgres)
		}
	default:
		return fmt.Errorf("неизвестный repository.type: %q", c.Repository.Type)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server.port не задан")
	}
	if c.Overdue.SweepInterval < 0 {
		return fmt.Errorf("overdue.sweep_interval не может быть отрицательным")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
