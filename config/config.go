package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/storyreel/preedit-pipeline/project"
)

// Transcription engines.
const (
	EngineSynthetic = "synthetic"
	EngineOpenAI    = "openai"
	EngineASR       = "asr"
)

type Service struct {
	URL string `yaml:"url"`
}
type Services struct {
	ASR    Service `yaml:"asr"`
	Render Service `yaml:"render"`
}
type Alignment struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}
type Transcription struct {
	Engine    string `yaml:"engine"`
	Model     string `yaml:"model"`
	OpenAIKey string `yaml:"openai_api_key"`
}
type Cache struct {
	RedisURL   string `yaml:"redis_url"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}
type Root struct {
	Pipeline struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		LogLvl  string `yaml:"log_level"`
	} `yaml:"pipeline"`
	Alignment     Alignment     `yaml:"alignment"`
	Styles        []string      `yaml:"styles"`
	Transcription Transcription `yaml:"transcription"`
	Services      Services      `yaml:"services"`
	Cache         Cache         `yaml:"cache"`
	Server        struct {
		Addr        string `yaml:"addr"`
		AllowOrigin string `yaml:"allow_origin"`
	} `yaml:"server"`
	Paths struct {
		Outputs string `yaml:"outputs"`
	} `yaml:"paths"`
}

// Default is the configuration used when no file is found.
func Default() *Root {
	var c Root
	c.Pipeline.Name = "preedit-pipeline"
	c.Pipeline.Version = "0.1.0"
	c.Pipeline.LogLvl = "info"
	c.Transcription.Engine = EngineSynthetic
	c.Cache.TTLSeconds = 24 * 60 * 60
	c.Server.Addr = ":8080"
	c.Server.AllowOrigin = "*"
	c.Paths.Outputs = "outputs"
	for _, st := range project.Styles {
		c.Styles = append(c.Styles, string(st))
	}
	return &c
}

// NewViper returns a viper instance reading REEL_* environment variables.
// Cobra flags are bound into the same instance under the keys below.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("openai_api_key", "REEL_OPENAI_API_KEY", "OPENAI_API_KEY")
	return v
}

// Load reads the YAML file named by the "config" key, or the first of the
// guessed paths that exists, over Default(), then applies overrides from v.
// A nil v uses NewViper().
func Load(v *viper.Viper) (*Root, error) {
	if v == nil {
		v = NewViper()
	}
	cfg := Default()

	guess := []string{v.GetString("config")}
	if guess[0] == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		guess = []string{
			filepath.Join("config", env, "config.yaml"),
			"config.yaml",
		}
	}
	for i, p := range guess {
		err := decodeFile(p, cfg)
		if err == nil {
			break
		}
		// an explicitly named file must exist
		if !errors.Is(err, fs.ErrNotExist) || (i == 0 && v.GetString("config") != "") {
			return nil, err
		}
	}

	override(v, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Root) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func override(v *viper.Viper, cfg *Root) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	str("log_level", &cfg.Pipeline.LogLvl)
	str("outputs", &cfg.Paths.Outputs)
	str("engine", &cfg.Transcription.Engine)
	str("model", &cfg.Transcription.Model)
	str("openai_api_key", &cfg.Transcription.OpenAIKey)
	str("asr_url", &cfg.Services.ASR.URL)
	str("render_url", &cfg.Services.Render.URL)
	str("redis_url", &cfg.Cache.RedisURL)
	str("addr", &cfg.Server.Addr)
	if v.IsSet("fuzzy") {
		cfg.Alignment.FuzzyThreshold = v.GetFloat64("fuzzy")
	}
	if v.IsSet("styles") {
		var styles []string
		for _, part := range v.GetStringSlice("styles") {
			for _, s := range strings.Split(part, ",") {
				if s = strings.TrimSpace(s); s != "" {
					styles = append(styles, s)
				}
			}
		}
		if len(styles) > 0 {
			cfg.Styles = styles
		}
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Root) Validate() error {
	if t := c.Alignment.FuzzyThreshold; t < 0 || t > 1 {
		return fmt.Errorf("config: fuzzy_threshold %v outside [0,1]", t)
	}
	switch c.Transcription.Engine {
	case EngineSynthetic, EngineOpenAI, EngineASR:
	default:
		return fmt.Errorf("config: unknown transcription engine %q", c.Transcription.Engine)
	}
	if _, err := c.StyleList(); err != nil {
		return err
	}
	return nil
}

// StyleList parses Styles.
func (c *Root) StyleList() ([]project.Style, error) {
	out := make([]project.Style, 0, len(c.Styles))
	for _, s := range c.Styles {
		st, err := project.ParseStyle(s)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (c *Root) CacheTTL() time.Duration { return DurSeconds(c.Cache.TTLSeconds) }

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
