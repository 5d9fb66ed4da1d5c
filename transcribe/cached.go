package transcribe

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/storyreel/preedit-pipeline/cache"
	"github.com/storyreel/preedit-pipeline/project"
)

// CachedTranscriber wraps a Transcriber and memoizes results per (Name, script).
// Cache failures are logged and never fail the transcription.
type CachedTranscriber struct {
	Next  Transcriber
	Cache cache.Cache
	Name  string
	TTL   time.Duration
	Log   logrus.FieldLogger
}

func (c *CachedTranscriber) Transcribe(ctx context.Context, script string) ([]project.TranscriptionWord, error) {
	log := c.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	key := cache.Key("transcription", c.Name, script)
	if b, ok, err := c.Cache.Get(ctx, key); err != nil {
		log.WithError(err).Warn("transcription cache read failed")
	} else if ok {
		var words []project.TranscriptionWord
		if err := json.Unmarshal(b, &words); err == nil {
			log.WithField("words", len(words)).Debug("transcription cache hit")
			return words, nil
		}
	}

	words, err := c.Next.Transcribe(ctx, script)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(words); err == nil {
		if err := c.Cache.Set(ctx, key, b, c.TTL); err != nil {
			log.WithError(err).Warn("transcription cache write failed")
		}
	}
	return words, nil
}
