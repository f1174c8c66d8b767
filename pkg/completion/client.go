// Package completion turns a conversation into one remote completion call
// and relays the result as a Stream of text fragments, with an optional
// response cache in front of the network.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pario-ai/sgpt/pkg/cache"
	"github.com/pario-ai/sgpt/pkg/config"
	"github.com/pario-ai/sgpt/pkg/metrics"
	"github.com/pario-ai/sgpt/pkg/models"
	"github.com/pario-ai/sgpt/pkg/transport"
)

const (
	modeStream   = "stream"
	modeBuffered = "buffered"
)

// Client issues completion requests through a Transport and caches results.
type Client struct {
	transport transport.Transport
	cache     cache.Store
	streaming bool
}

// New creates a Client. store may be nil, in which case caching is skipped
// even when requested.
func New(cfg *config.Config, t transport.Transport, store cache.Store) *Client {
	return &Client{
		transport: t,
		cache:     store,
		streaming: !cfg.DisableStreaming,
	}
}

// Complete returns the fragments of the completion for req.
//
// With useCache set, a cached completion is returned as a single fragment
// without contacting the endpoint; on a miss the full text is stored once
// the sequence ends successfully. Without useCache the cache is neither
// read nor written. Remote failures wrap transport.ErrRemoteCall.
//
// Temperature and TopProbability are passed through as given, except that
// a zero goes out on the wire as 1e-45 (the smallest positive float32)
// because the OpenAI client omits zero values. The cache key uses the
// exact requested value.
func (c *Client) Complete(ctx context.Context, req models.CompletionRequest, useCache bool) (*Stream, error) {
	cacheable := useCache && c.cache != nil
	log := logrus.WithField("model", req.Model)

	var key string
	if cacheable {
		key = cache.Key(req)
		log = log.WithField("key", key)
		if text, ok := c.cache.Lookup(ctx, key); ok {
			log.Debug("cache hit")
			return newStream(transport.Buffered{Text: text}), nil
		}
		log.Debug("cache miss")
	}

	mode := modeBuffered
	if c.streaming {
		mode = modeStream
	}

	start := time.Now()
	resp, err := c.transport.Send(ctx, req, c.streaming)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(mode, "error").Inc()
		log.WithError(err).Warn("completion request failed")
		if !errors.Is(err, transport.ErrRemoteCall) {
			err = fmt.Errorf("%w: %w", transport.ErrRemoteCall, err)
		}
		return nil, err
	}

	s := newStream(resp)
	s.onDone = func(text string) {
		metrics.RequestsTotal.WithLabelValues(mode, "ok").Inc()
		metrics.RequestDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
		if !cacheable {
			return
		}
		if err := c.cache.Store(context.WithoutCancel(ctx), key, text); err != nil {
			log.WithError(err).Warn("failed to store completion in cache")
		}
	}
	s.onFail = func(err error) {
		metrics.RequestsTotal.WithLabelValues(mode, "error").Inc()
		log.WithError(err).Warn("completion stream failed")
	}
	return s, nil
}
