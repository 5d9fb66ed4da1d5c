package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/timecode"
	"github.com/storyreel/preedit-pipeline/transcribe"
)

type ASRWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type TransSeg struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ASRResp carries word timings when the service has them and segments
// otherwise.
type ASRResp struct {
	Words    []ASRWord  `json:"words"`
	Segments []TransSeg `json:"segments"`
	Language string     `json:"language"`
}

func (h *HTTP) ASR(ctx context.Context, url, audioPath string) (*ASRResp, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("asr: %w", err)
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.WriteField("word_timestamps", "true"); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/transcribe", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out ASRResp
	if err := h.do("asr", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transcribe uploads audioPath to the ASR service and converts the result
// into transcription words. Segment-only responses are split evenly.
func (h *HTTP) Transcribe(ctx context.Context, url, audioPath string) ([]project.TranscriptionWord, error) {
	resp, err := h.ASR(ctx, url, audioPath)
	if err != nil {
		return nil, err
	}
	return resp.TranscriptionWords(), nil
}

func (r *ASRResp) TranscriptionWords() []project.TranscriptionWord {
	if len(r.Words) > 0 {
		out := make([]project.TranscriptionWord, 0, len(r.Words))
		for _, w := range r.Words {
			out = append(out, project.TranscriptionWord{
				Word:      w.Word,
				StartTime: timecode.Format(w.Start),
				EndTime:   timecode.Format(w.End),
			})
		}
		return out
	}
	out := []project.TranscriptionWord{}
	for _, s := range r.Segments {
		out = append(out, transcribe.SplitInterval(s.Start, s.End, s.Text)...)
	}
	return out
}

// ASRTranscriber binds an audio file to the ASR service so it can stand in
// for any transcribe.Transcriber. The script text is not sent.
type ASRTranscriber struct {
	HTTP  *HTTP
	URL   string
	Audio string
}

func (a ASRTranscriber) Transcribe(ctx context.Context, _ string) ([]project.TranscriptionWord, error) {
	if a.Audio == "" {
		return nil, fmt.Errorf("asr: no audio file")
	}
	return a.HTTP.Transcribe(ctx, a.URL, a.Audio)
}
