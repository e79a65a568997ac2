package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CIDgravity/snakelet"
	"github.com/joho/godotenv"
	"github.com/profile-readme/readme-gen/model"
	log "github.com/sirupsen/logrus"
)

// config structure
type Config struct {
	API     APIConfig     `mapstructure:"API"`
	Backend BackendConfig `mapstructure:"BACKEND"`
	Github  GithubConfig  `mapstructure:"GITHUB"`
	Tasks   TasksConfig   `mapstructure:"TASKS"`
	Logs    LogsConfig    `mapstructure:"LOGS"`
	Profile ProfileConfig `mapstructure:"PROFILE"`
	Footer  FooterConfig  `mapstructure:"FOOTER"`
	Output  OutputConfig  `mapstructure:"OUTPUT"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

// BackendConfig holds the data API connection.
// BaseURL and APIKey are secrets and always come from the environment (BASE_URL, API_KEY)
type BackendConfig struct {
	BaseURL        string `mapstructure:"-"`
	APIKey         string `mapstructure:"-"`
	TimeoutSeconds int    `mapstructure:"TimeoutSeconds"` // 0 keeps the http client default
}

type GithubConfig struct {
	Token     string `mapstructure:"-"` // optional, read from GITHUB_TOKEN
	UserAgent string `mapstructure:"UserAgent"`
	BaseURL   string `mapstructure:"BaseURL"` // empty uses https://api.github.com/
	RateLimit int    `mapstructure:"RateLimit"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJson"`
}

type ProfileConfig struct {
	Greeting string `mapstructure:"Greeting"`
	Intro    string `mapstructure:"Intro"`
}

type FooterConfig struct {
	StatsURL          string `mapstructure:"StatsURL"`
	TrackingWidgetURL string `mapstructure:"TrackingWidgetURL"`
	ClosingText       string `mapstructure:"ClosingText"`
	ClosingURL        string `mapstructure:"ClosingURL"`
	Timezone          string `mapstructure:"Timezone"`
}

type OutputConfig struct {
	Path string `mapstructure:"Path"`
}

// Load reads the optional config file over the defaults, then the environment
// the config file is looked up next to the binary first, then in the working directory
func Load() (*Config, error) {
	cfg := GetDefault()

	configFilePath, err := findConfigFile()
	if err != nil {
		return nil, err
	}

	if configFilePath != "" {
		if _, err := snakelet.InitAndLoad(cfg, configFilePath); err != nil {
			return nil, fmt.Errorf("%w: unable to load %s: %v", model.ErrConfig, configFilePath, err)
		}
	}

	cfg.ApplyEnv()

	return cfg, nil
}

func findConfigFile() (string, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return "", err
	}

	candidates := []string{
		filepath.Join(dir, "config", "config.toml"),
		filepath.Join("config", "config.toml"),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}

	return "", nil
}

// LoadDotenv loads an env file for local runs, values already in the environment are kept
// a missing file is fine, a file that cannot be read or parsed is an error
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("path", path).Debug("no env file loaded")
			return nil
		}

		return fmt.Errorf("%w: unable to load env file %s: %v", model.ErrConfig, path, err)
	}

	log.WithField("path", path).Debug("env file loaded")
	return nil
}

// ApplyEnv copies the secrets from the process environment
func (c *Config) ApplyEnv() {
	c.Backend.BaseURL = os.Getenv("BASE_URL")
	c.Backend.APIKey = os.Getenv("API_KEY")
	c.Github.Token = os.Getenv("GITHUB_TOKEN")
}

// Validate checks the values required before any request is sent
func (c Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("%w: BASE_URL is not set", model.ErrConfig)
	}

	if c.Backend.APIKey == "" {
		return fmt.Errorf("%w: API_KEY is not set", model.ErrConfig)
	}

	if c.Output.Path == "" {
		return fmt.Errorf("%w: output path is empty", model.ErrConfig)
	}

	if c.Tasks.MaxParallelTasksAllowed < 1 {
		return fmt.Errorf("%w: MaxParallelTasksAllowed must be at least 1", model.ErrConfig)
	}

	if c.Github.RateLimit < 1 {
		return fmt.Errorf("%w: github RateLimit must be at least 1", model.ErrConfig)
	}

	return nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Github: GithubConfig{
			UserAgent: "readme-gen",
			RateLimit: 60, // anonymous requests per hour
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 1,
		},
		Logs: LogsConfig{
			Level:            "info",
			OutputLogsAsJSON: false,
		},
		Profile: ProfileConfig{
			Greeting: "Hey there!👋",
			Intro:    "I'm **Will**, a web developer and code tinkerer living in **🇬🇧 London, UK**. I've been coding since age 8, and since then I've learnt a lot but achieved remarkably little with it!",
		},
		Footer: FooterConfig{
			StatsURL:          "https://github-readme-stats.vercel.app/api?username=will&show_icons=true&hide_border=true",
			TrackingWidgetURL: "https://wakatime.com/badge/user/will.svg",
			ClosingText:       "⚡ Generated automatically, see how it works",
			ClosingURL:        "https://github.com/profile-readme/readme-gen",
			Timezone:          "UTC",
		},
		Output: OutputConfig{
			Path: "README.md",
		},
	}
}
