package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Log    LogConfig    `mapstructure:"log"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Sarvam SarvamConfig `mapstructure:"sarvam"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	CORSOrigins     string        `mapstructure:"cors_origins"`
	BodyLimitMB     int           `mapstructure:"body_limit_mb"`
	TempDir         string        `mapstructure:"temp_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Stdout bool   `mapstructure:"stdout"`
	MaxAge int    `mapstructure:"max_age"`
}

type LLMConfig struct {
	Provider            string `mapstructure:"provider"`
	MinTranscriptLength int    `mapstructure:"min_transcript_length"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type SarvamConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	STTModel     string `mapstructure:"stt_model"`
	LanguageCode string `mapstructure:"language_code"`
	Speaker      string `mapstructure:"speaker"`
}

var defaults = map[string]any{
	"server.port":               3000,
	"server.cors_origins":       "http://localhost:3000",
	"server.body_limit_mb":      25,
	"server.temp_dir":           "./temp",
	"server.shutdown_timeout":   10 * time.Second,
	"http.timeout":              60 * time.Second,
	"log.level":                 "info",
	"log.file":                  "",
	"log.stdout":                true,
	"log.max_age":               7,
	"llm.provider":              "gemini",
	"llm.min_transcript_length": 10,
	"gemini.api_key":            "",
	"gemini.model":              "gemini-2.5-flash",
	"gemini.base_url":           "",
	"openai.api_key":            "",
	"openai.model":              "gpt-4o-mini",
	"openai.base_url":           "",
	"sarvam.api_key":            "",
	"sarvam.base_url":           "https://api.sarvam.ai",
	"sarvam.stt_model":          "saarika:v2.5",
	"sarvam.language_code":      "od-IN",
	"sarvam.speaker":            "manisha",
}

// Env names that predate the SECTION_KEY scheme.
var aliases = map[string][]string{
	"server.port":         {"PORT"},
	"server.cors_origins": {"CORS_ORIGINS"},
	"server.temp_dir":     {"TEMP_DIR"},
	"http.timeout":        {"HTTP_TIMEOUT"},
}

// Load reads the optional config file (json or yaml) and overlays the
// environment. An empty path means environment only.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range aliases {
		upper := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, upper}, envs...)...); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
	}

	if configFile != "" {
		switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(configFile), ".")); ext {
		case "json":
			v.SetConfigType("json")
		case "yaml", "yml":
			v.SetConfigType("yaml")
		default:
			return nil, errors.Errorf("unsupported config file type: %s", ext)
		}
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return &cfg, nil
}

// Validate fails when a key needed by the selected vendors is missing.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return errors.New("GEMINI_API_KEY must be set")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY must be set")
		}
	default:
		return errors.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}
	if c.Sarvam.APIKey == "" {
		return errors.New("SARVAM_API_KEY must be set")
	}
	return nil
}

// AllowedOrigins splits the comma separated CORS allow-list.
func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(s.CORSOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, strings.TrimSuffix(origin, "/"))
		}
	}
	return origins
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

func (s ServerConfig) BodyLimit() int {
	return s.BodyLimitMB * 1024 * 1024
}
