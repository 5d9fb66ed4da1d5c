package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"

	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/timecode"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "voiceover.wav")
	if err := os.WriteFile(p, []byte("RIFFfake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestASRTranscribeWords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			b, _ := io.ReadAll(f)
			if hdr.Filename != "voiceover.wav" || string(b) != "RIFFfake" {
				t.Errorf("upload = %s %q", hdr.Filename, b)
			}
		}
		if r.FormValue("word_timestamps") != "true" {
			t.Errorf("word_timestamps not requested")
		}
		w.Write([]byte(`{"words":[{"word":"Hello","start":0,"end":0.35},{"word":"world","start":0.4,"end":0.75}],"language":"en"}`))
	}))
	defer srv.Close()

	words, err := NewHTTP(srv.Client()).Transcribe(context.Background(), srv.URL, writeAudio(t))
	if err != nil {
		t.Fatal(err)
	}
	want := []project.TranscriptionWord{
		{Word: "Hello", StartTime: "00:00:00,000", EndTime: "00:00:00,350"},
		{Word: "world", StartTime: "00:00:00,400", EndTime: "00:00:00,750"},
	}
	if len(words) != 2 || words[0] != want[0] || words[1] != want[1] {
		t.Errorf("words = %+v", words)
	}
}

func TestASRSegmentsOnly(t *testing.T) {
	resp := ASRResp{Segments: []TransSeg{{Start: 1, End: 2, Text: " hello world"}}}
	words := resp.TranscriptionWords()
	if len(words) != 2 || words[1].StartTime != "00:00:01,500" || words[1].EndTime != "00:00:02,000" {
		t.Errorf("words = %+v", words)
	}
}

func TestASRErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.Client()).ASR(context.Background(), srv.URL, writeAudio(t))
	if err == nil || !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("err = %v", err)
	}
}

func TestASRTranscriberNoAudio(t *testing.T) {
	a := ASRTranscriber{HTTP: NewHTTP(nil), URL: "http://unused"}
	if _, err := a.Transcribe(context.Background(), "script"); err == nil {
		t.Errorf("expected error without audio")
	}
}

func TestRender(t *testing.T) {
	text := "Title"
	var got RenderReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"status":"queued","path":"/renders/1.mp4"}`))
	}))
	defer srv.Close()

	req := RenderReq{
		Project: "demo",
		Style:   "clear",
		Items:   []project.PreEditScanItem{{BeatNumber: "1", Start: 0, End: 1.5, Text: &text, Photo: "a.png"}},
	}
	resp, err := NewHTTP(srv.Client()).Render(context.Background(), srv.URL, req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != "queued" || resp.Path != "/renders/1.mp4" {
		t.Errorf("resp = %+v", resp)
	}
	if len(got.Items) != 1 || got.Items[0].End != 1.5 || *got.Items[0].Text != "Title" || got.Items[0].SFX != nil {
		t.Errorf("renderer received %+v", got)
	}
}

func TestRenderBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()
	_, err := NewHTTP(srv.Client()).Render(context.Background(), srv.URL, RenderReq{})
	if err == nil || !strings.HasPrefix(err.Error(), "render decode:") {
		t.Errorf("err = %v", err)
	}
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["model"] != "test-model" {
			t.Errorf("model = %v", body["model"])
		}
		if _, ok := body["response_format"]; !ok {
			t.Errorf("response_format missing")
		}
		b, _ := json.Marshal(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	}))
}

func TestOpenAITranscribe(t *testing.T) {
	srv := chatServer(t, `{"words":[{"word":"Hello","startTime":"00:00:00,000","endTime":"00:00:00,350"}]}`)
	defer srv.Close()

	o, err := NewOpenAI("sk-test", "test-model", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	words, err := o.Transcribe(context.Background(), "Hello")
	if err != nil {
		t.Fatal(err)
	}
	want := project.TranscriptionWord{Word: "Hello", StartTime: "00:00:00,000", EndTime: "00:00:00,350"}
	if len(words) != 1 || words[0] != want {
		t.Errorf("words = %+v", words)
	}
}

func TestOpenAIRejectsBadTimestamp(t *testing.T) {
	srv := chatServer(t, `{"words":[{"word":"Hello","startTime":"0.0","endTime":"00:00:00,350"}]}`)
	defer srv.Close()

	o, err := NewOpenAI("sk-test", "test-model", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.Transcribe(context.Background(), "Hello"); !errors.Is(err, timecode.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestNewOpenAINoKey(t *testing.T) {
	if _, err := NewOpenAI("", ""); err == nil {
		t.Errorf("expected error for empty key")
	}
}

func TestGenerateSchema(t *testing.T) {
	b, err := json.Marshal(GenerateSchema[transcriptionResponse]())
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`"words"`, `"startTime"`, `"additionalProperties":false`} {
		if !strings.Contains(s, want) {
			t.Errorf("schema missing %s: %s", want, s)
		}
	}
	if strings.Contains(s, `"$ref"`) {
		t.Errorf("schema uses references: %s", s)
	}
}
