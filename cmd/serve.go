package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storyreel/preedit-pipeline/orchestrator"
	"github.com/storyreel/preedit-pipeline/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pre-edit scan over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cc, rdb, err := newCache(c)
		if err != nil {
			return err
		}
		tr, err := newTranscriber(c, cc, "")
		if err != nil {
			return err
		}

		log := logrus.StandardLogger()
		p := orchestrator.NewPipeline(c, orchestrator.WithTranscriber(tr), orchestrator.WithLogger(log))
		opts := []server.Option{server.WithLogger(log)}
		if rdb != nil {
			defer rdb.Close()
			if err := rdb.Ping(cmd.Context()); err != nil {
				log.WithError(err).Warn("redis not reachable at startup")
			}
			opts = append(opts, server.WithCache(rdb))
		}
		return server.New(c, p, tr, opts...).Run()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("engine", "", "transcription engine for /api/transcription")
	serveCmd.Flags().String("model", "", "OpenAI model for the openai engine")
	serveCmd.Flags().String("out", "", "outputs root directory")
	serveCmd.Flags().Float64("fuzzy", 0, "default fuzzy alignment threshold")
}
