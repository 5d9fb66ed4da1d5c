package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storyreel/preedit-pipeline/clients"
	"github.com/storyreel/preedit-pipeline/orchestrator"
)

var scanCmd = &cobra.Command{
	Use:   "scan <project-dir>",
	Short: "Build the pre-edit scan for every storyboard style of a project",
	Long: `Build the pre-edit scan for a project directory holding script.md,
storyboards/<style>.json and optionally transcription.json and
image_selection.json. A missing transcription is produced from the script
with the configured engine and saved into the project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cc, rdb, err := newCache(c)
		if err != nil {
			return err
		}
		if rdb != nil {
			defer rdb.Close()
		}
		audio, _ := cmd.Flags().GetString("audio")
		tr, err := newTranscriber(c, cc, audio)
		if err != nil {
			return err
		}

		opts := []orchestrator.Option{
			orchestrator.WithTranscriber(tr),
			orchestrator.WithLogger(logrus.StandardLogger()),
		}
		if render, _ := cmd.Flags().GetBool("render"); render {
			if c.Services.Render.URL == "" {
				return fmt.Errorf("--render needs services.render.url")
			}
			opts = append(opts, orchestrator.WithRenderer(clients.NewHTTP(nil)))
		}

		res, err := orchestrator.NewPipeline(c, opts...).Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session %s (%d words", res.SessionID, res.Words)
		if res.Transcribed {
			fmt.Fprint(out, ", transcription generated")
		}
		fmt.Fprintln(out, ")")
		for _, r := range res.Styles {
			fmt.Fprintf(out, "  %-13s %d shots, %d matched, %d fallback, %.2fs -> %s\n",
				r.Style, r.Stats.Total, r.Stats.Matched, r.Stats.Fallback, r.Stats.Duration, r.Path)
			if len(r.Fallbacks) > 0 {
				fmt.Fprintf(out, "  %-13s unmatched beats: %v\n", "", r.Fallbacks)
			}
		}
		if res.Render != nil {
			fmt.Fprintf(out, "Render %s: %s\n", res.Render.Status, res.Render.Path)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringSlice("style", nil, "styles to scan (default: all configured)")
	scanCmd.Flags().String("out", "", "outputs root directory")
	scanCmd.Flags().Float64("fuzzy", 0, "fuzzy alignment threshold in (0,1]; 0 keeps exact matching only")
	scanCmd.Flags().Bool("render", false, "post the first style's scan to the renderer")
	scanCmd.Flags().String("render-url", "", "renderer base URL")
	scanCmd.Flags().String("engine", "", "transcription engine when none exists: synthetic, openai or asr")
	scanCmd.Flags().String("model", "", "OpenAI model for the openai engine")
	scanCmd.Flags().String("asr-url", "", "ASR service base URL")
	scanCmd.Flags().String("audio", "", "voiceover audio for the asr engine")
}
