// Package cache defines the completion cache contract and request
// fingerprinting shared by cache implementations.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/pario-ai/sgpt/pkg/models"
)

// KeyPrefix versions the fingerprint scheme.
const KeyPrefix = "sgpt:v1:"

// Store maps request fingerprints to completion text.
type Store interface {
	// Lookup returns the cached completion for key. A miss is not an error.
	Lookup(ctx context.Context, key string) (string, bool)
	// Store inserts or overwrites the completion for key.
	Store(ctx context.Context, key, value string) error
}

// Key computes the fingerprint of a request. The hashed form is the JSON
// encoding of the messages followed by the quoted model and the shortest
// exact representations of temperature and top_p, one per line.
func Key(req models.CompletionRequest) string {
	msgs := req.Messages
	if msgs == nil {
		msgs = []models.Message{}
	}
	// Messages hold only strings, so encoding cannot fail.
	data, _ := json.Marshal(msgs)

	h := sha256.New()
	h.Write(data)
	h.Write([]byte("\n" + strconv.Quote(req.Model)))
	h.Write([]byte("\ntemperature:" + strconv.FormatFloat(req.Temperature, 'g', -1, 64)))
	h.Write([]byte("\ntop_p:" + strconv.FormatFloat(req.TopProbability, 'g', -1, 64)))
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}
