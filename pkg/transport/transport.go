// Package transport issues completion requests to the remote endpoint and
// exposes the two response shapes it can return.
package transport

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_transport.go -package=mocks github.com/pario-ai/sgpt/pkg/transport Transport,ChunkStream

import (
	"context"
	"errors"

	"github.com/pario-ai/sgpt/pkg/models"
)

// ErrRemoteCall marks every failure of the remote endpoint: network errors,
// authentication or status errors, and unparsable responses.
var ErrRemoteCall = errors.New("remote call failed")

// Transport sends one completion request.
type Transport interface {
	// Send issues req. With stream set the result is Streamed, otherwise Buffered.
	Send(ctx context.Context, req models.CompletionRequest, stream bool) (Response, error)
}

// Response is either Streamed or Buffered.
type Response interface {
	isResponse()
}

// Streamed is an ordered sequence of partial-response chunks.
type Streamed struct {
	Chunks ChunkStream
}

// Buffered is a complete response body.
type Buffered struct {
	Text string
}

func (Streamed) isResponse() {}
func (Buffered) isResponse() {}

// Chunk is one partial response. An empty Content means the chunk carried
// no incremental text (role announcements, finish markers, empty choices).
type Chunk struct {
	Content      string
	FinishReason string
}

// ChunkStream is a pull-based chunk sequence. Recv returns io.EOF once the
// termination sentinel has been read. Close releases the connection and
// may be called at any time.
type ChunkStream interface {
	Recv() (Chunk, error)
	Close() error
}
