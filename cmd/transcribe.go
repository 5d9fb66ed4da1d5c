package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storyreel/preedit-pipeline/orchestrator"
	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/transcribe"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <project-dir>",
	Short: "Write transcription.json and transcription.srt for a project",
	Long: `Produce the word-level transcription of a project's script.md with the
configured engine, or import one from an SRT file with --srt, and save it as
transcription.json and transcription.srt. An existing transcription is
replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := project.Open(args[0])
		if err != nil {
			return err
		}

		var words []project.TranscriptionWord
		if srt, _ := cmd.Flags().GetString("srt"); srt != "" {
			f, err := os.Open(srt)
			if err != nil {
				return err
			}
			words, err = transcribe.ParseSRT(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", srt, err)
			}
		} else {
			script, err := store.LoadScript()
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
			if words, err = tr.Transcribe(cmd.Context(), script); err != nil {
				return err
			}
		}

		if err := orchestrator.SaveTranscription(store, words); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"project": store.Root, "words": len(words)}).Info("transcription saved")
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d words to %s\n", len(words), store.Root)
		return nil
	},
}

func init() {
	transcribeCmd.Flags().String("engine", "", "transcription engine: synthetic, openai or asr")
	transcribeCmd.Flags().String("model", "", "OpenAI model for the openai engine")
	transcribeCmd.Flags().String("asr-url", "", "ASR service base URL")
	transcribeCmd.Flags().String("audio", "", "voiceover audio for the asr engine")
	transcribeCmd.Flags().String("srt", "", "import word timings from an SRT file instead")
}
