// Package config 加载服务配置
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"painpredict/logger"
	"painpredict/ml"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	Models struct {
		Source string                `yaml:"source"`
		Dir    string                `yaml:"dir"`
		Files  map[ml.ModelID]string `yaml:"files"`
		Watch  bool                  `yaml:"watch"`
	} `yaml:"models"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log    logger.Config `yaml:"log"`
	Cache  struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Locale string `yaml:"locale"`
}

// Default 默认配置
func Default() *Config {
	var c Config
	c.Http.Port = 8080
	c.Http.Timeout = 10 * time.Second
	c.Http.AllowedOrigins = []string{"*"}
	c.Http.MaxBodyBytes = 1 << 16
	c.Models.Source = SourceFile
	c.Models.Dir = "models"
	c.Models.Files = map[ml.ModelID]string{
		ml.Model24h: "logreg_24h.json",
		ml.Model72h: "gb_72h.json",
	}
	c.Database.Path = "data/artifacts.db"
	c.Log.Level = "info"
	c.Cache.Size = 1024
	c.Locale = "en"
	return &c
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	switch c.Models.Source {
	case SourceFile:
	case SourceSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite model source")
		}
	default:
		return fmt.Errorf("unknown model source %q", c.Models.Source)
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	return nil
}

// Language resolves Locale to one of the supported interpretation languages.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	for _, supported := range ml.SupportedLocales() {
		if tag == supported {
			return tag, nil
		}
	}
	return language.Und, fmt.Errorf("unsupported locale %q", c.Locale)
}

// FileSource builds the artifact source for the file model backend.
func (c *Config) FileSource() ml.FileSource {
	return ml.FileSource{Dir: c.Models.Dir, Files: c.Models.Files}
}
