// Package clients talks to the external collaborators of the pipeline:
// the ASR service, the renderer and the OpenAI API.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

// NewHTTP wraps c. A nil client gets a 60s timeout default.
func NewHTTP(c *http.Client) *HTTP {
	if c == nil {
		c = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTP{c: c}
}

// postJSON sends in as JSON to url and decodes the 200 response into out.
// name prefixes every error.
func (h *HTTP) postJSON(ctx context.Context, name, url string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s encode: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return h.do(name, req, out)
}

func (h *HTTP) do(name string, req *http.Request, out any) error {
	resp, err := h.c.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %s", name, resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode: %w", name, err)
	}
	return nil
}
