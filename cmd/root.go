package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storyreel/preedit-pipeline/cache"
	"github.com/storyreel/preedit-pipeline/clients"
	"github.com/storyreel/preedit-pipeline/config"
	"github.com/storyreel/preedit-pipeline/transcribe"
)

var v = config.NewViper()

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"config":     "config",
	"log-level":  "log_level",
	"style":      "styles",
	"out":        "outputs",
	"fuzzy":      "fuzzy",
	"engine":     "engine",
	"model":      "model",
	"asr-url":    "asr_url",
	"render-url": "render_url",
	"addr":       "addr",
}

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Align a narration transcript with storyboard shots",
	Long: `reel builds the pre-edit scan of a short-form video project: every storyboard
shot gets a start and end time located in the word-level transcription of the
voiceover, plus the image chosen for its beat and its overlay and sound cues.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for flag, key := range flagKeys {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default config/$CONFIG_ENV/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the configuration and sets up logging from it.
func loadConfig() (*config.Root, error) {
	c, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	lvl, err := logrus.ParseLevel(c.Pipeline.LogLvl)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return c, nil
}

// newCache returns the redis cache when one is configured and an
// in-process cache otherwise. The *cache.Redis is non-nil only in the first
// case and must be closed by the caller.
func newCache(c *config.Root) (cache.Cache, *cache.Redis, error) {
	if c.Cache.RedisURL == "" {
		return cache.NewMemory(), nil, nil
	}
	r, err := cache.NewRedis(c.Cache.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return r, r, nil
}

// newTranscriber builds the configured transcription engine. Script-based
// engines are cached; the ASR engine depends on the audio file instead.
func newTranscriber(c *config.Root, cc cache.Cache, audio string) (transcribe.Transcriber, error) {
	var (
		tr  transcribe.Transcriber
		err error
	)
	switch c.Transcription.Engine {
	case config.EngineSynthetic:
		return transcribe.SyntheticTranscriber{}, nil
	case config.EngineOpenAI:
		tr, err = clients.NewOpenAI(c.Transcription.OpenAIKey, c.Transcription.Model)
		if err != nil {
			return nil, err
		}
	case config.EngineASR:
		if c.Services.ASR.URL == "" {
			return nil, fmt.Errorf("asr engine needs services.asr.url")
		}
		return clients.ASRTranscriber{HTTP: clients.NewHTTP(nil), URL: c.Services.ASR.URL, Audio: audio}, nil
	default:
		return nil, fmt.Errorf("unknown transcription engine %q", c.Transcription.Engine)
	}
	return &transcribe.CachedTranscriber{
		Next:  tr,
		Cache: cc,
		Name:  c.Transcription.Engine + ":" + c.Transcription.Model,
		TTL:   c.CacheTTL(),
		Log:   logrus.StandardLogger(),
	}, nil
}
