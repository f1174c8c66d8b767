package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
)

var doneLine = []byte("data: [DONE]")

type sentinelKey struct{}

// withSentinel returns a context whose HTTP response body will report
// whether the event stream's "data: [DONE]" line was read.
func withSentinel(ctx context.Context) (context.Context, *atomic.Bool) {
	seen := new(atomic.Bool)
	return context.WithValue(ctx, sentinelKey{}, seen), seen
}

// sentinelTransport wraps response bodies of requests carrying a sentinel flag.
type sentinelTransport struct {
	base http.RoundTripper
}

func (t sentinelTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if seen, ok := req.Context().Value(sentinelKey{}).(*atomic.Bool); ok {
		resp.Body = &sentinelReader{ReadCloser: resp.Body, seen: seen}
	}
	return resp, nil
}

// sentinelReader watches the lines passing through it for the end-of-stream
// marker. Lines longer than the marker are never compared.
type sentinelReader struct {
	io.ReadCloser
	seen *atomic.Bool
	line []byte
	long bool
}

func (r *sentinelReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	for _, b := range p[:n] {
		if b == '\n' {
			r.endLine()
			continue
		}
		if len(r.line) > len(doneLine)+1 {
			r.long = true
			continue
		}
		r.line = append(r.line, b)
	}
	if errors.Is(err, io.EOF) {
		r.endLine()
	}
	return n, err
}

func (r *sentinelReader) endLine() {
	if !r.long {
		l := bytes.TrimSpace(r.line)
		if bytes.Equal(l, doneLine) || bytes.Equal(l, []byte("data:[DONE]")) {
			r.seen.Store(true)
		}
	}
	r.line = r.line[:0]
	r.long = false
}
