package completion

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pario-ai/sgpt/pkg/metrics"
	"github.com/pario-ai/sgpt/pkg/transport"
)

// ErrStreamClosed is returned by Recv after the caller abandoned the stream.
// It is reported wrapped in transport.ErrRemoteCall.
var ErrStreamClosed = errors.New("stream closed")

type state int

const (
	awaitingFirstChunk state = iota
	emitting
	done
	failed
)

// Stream is a pull-based sequence of completion fragments. Recv returns
// fragments in the order the endpoint produced them and io.EOF after the
// last one. Any other error is terminal and returned again on later calls.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	resp   transport.Response
	state  state
	text   strings.Builder
	err    error
	closed bool

	// onDone receives the concatenated text once the sequence ended normally.
	onDone func(text string)
	// onFail receives the terminal error of a failed sequence.
	onFail func(err error)
}

func newStream(resp transport.Response) *Stream {
	return &Stream{resp: resp}
}

// Recv returns the next fragment.
func (s *Stream) Recv() (string, error) {
	switch s.state {
	case done:
		return "", io.EOF
	case failed:
		return "", s.err
	}

	switch r := s.resp.(type) {
	case transport.Buffered:
		s.state = done
		s.text.WriteString(r.Text)
		metrics.FragmentsTotal.Inc()
		s.finish()
		return r.Text, nil

	case transport.Streamed:
		for {
			chunk, err := r.Chunks.Recv()
			if errors.Is(err, io.EOF) {
				s.state = done
				s.closeChunks()
				s.finish()
				return "", io.EOF
			}
			if err != nil {
				return "", s.fail(err)
			}
			if chunk.Content == "" {
				continue
			}
			s.state = emitting
			s.text.WriteString(chunk.Content)
			metrics.FragmentsTotal.Inc()
			return chunk.Content, nil
		}

	default:
		return "", s.fail(fmt.Errorf("unsupported response type %T", s.resp))
	}
}

// ReadAll drains the stream and returns the concatenated text. On error the
// text received so far is returned with it.
func (s *Stream) ReadAll() (string, error) {
	var b strings.Builder
	for {
		frag, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(frag)
	}
}

// Close abandons the stream and releases the underlying connection. A
// stream closed before its end is never written to the cache.
func (s *Stream) Close() error {
	var err error
	if !s.closed {
		if r, ok := s.resp.(transport.Streamed); ok {
			err = r.Chunks.Close()
		}
		s.closed = true
	}
	if s.state == awaitingFirstChunk || s.state == emitting {
		s.state = failed
		s.err = fmt.Errorf("%w: %w", transport.ErrRemoteCall, ErrStreamClosed)
	}
	return err
}

func (s *Stream) finish() {
	if s.onDone != nil {
		s.onDone(s.text.String())
	}
}

func (s *Stream) fail(err error) error {
	if !errors.Is(err, transport.ErrRemoteCall) {
		err = fmt.Errorf("%w: %w", transport.ErrRemoteCall, err)
	}
	s.state = failed
	s.err = err
	s.closeChunks()
	if s.onFail != nil {
		s.onFail(err)
	}
	return err
}

func (s *Stream) closeChunks() {
	if s.closed {
		return
	}
	s.closed = true
	if r, ok := s.resp.(transport.Streamed); ok {
		_ = r.Chunks.Close()
	}
}
