package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/pario-ai/sgpt/pkg/config"
	"github.com/pario-ai/sgpt/pkg/models"
)

// OpenAI is a Transport for Azure OpenAI deployments and OpenAI-compatible
// chat completion endpoints.
type OpenAI struct {
	client  *openai.Client
	apiType string
}

// NewOpenAI builds a transport from the endpoint, credential and timeout in cfg.
//
// For Azure the model name is used verbatim as the deployment name. The
// request timeout bounds the whole call, including reading a streamed body.
func NewOpenAI(cfg *config.Config) *OpenAI {
	host := strings.TrimRight(cfg.APIHost, "/")

	var oc openai.ClientConfig
	switch cfg.APIType {
	case config.APITypeOpenAI:
		oc = openai.DefaultConfig(cfg.APIKey)
		oc.BaseURL = host + "/v1"
	default:
		oc = openai.DefaultAzureConfig(cfg.APIKey, host)
		oc.APIVersion = cfg.AzureAPIVersion
		oc.AzureModelMapperFunc = func(model string) string { return model }
	}
	oc.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout(),
		Transport: sentinelTransport{base: http.DefaultTransport},
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(oc),
		apiType: cfg.APIType,
	}
}

// Send issues one chat completion request.
func (o *OpenAI) Send(ctx context.Context, req models.CompletionRequest, stream bool) (Response, error) {
	creq := toChatRequest(req)

	logrus.WithFields(logrus.Fields{
		"api_type": o.apiType,
		"model":    req.Model,
		"messages": len(req.Messages),
		"stream":   stream,
	}).Debug("sending completion request")

	if stream {
		sctx, done := withSentinel(ctx)
		s, err := o.client.CreateChatCompletionStream(sctx, creq)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRemoteCall, err)
		}
		return Streamed{Chunks: &chunkStream{stream: s, done: done}}, nil
	}

	resp, err := o.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrRemoteCall)
	}
	return Buffered{Text: resp.Choices[0].Message.Content}, nil
}

func toChatRequest(req models.CompletionRequest) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}
	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: wireFloat(req.Temperature),
		TopP:        wireFloat(req.TopProbability),
	}
}

// wireFloat converts a sampling parameter for go-openai, which omits zero
// values from the request body. An explicit zero is sent as the smallest
// positive float32 so the endpoint still receives it.
func wireFloat(v float64) float32 {
	if v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(v)
}

// chunkStream relays go-openai stream events. go-openai reports both the
// [DONE] line and a body that simply stops as io.EOF; only the former ends
// the stream normally.
type chunkStream struct {
	stream *openai.ChatCompletionStream
	done   *atomic.Bool
}

func (s *chunkStream) Recv() (Chunk, error) {
	resp, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		if !s.done.Load() {
			return Chunk{}, fmt.Errorf("%w: stream ended before [DONE]", ErrRemoteCall)
		}
		return Chunk{}, io.EOF
	}
	if err != nil {
		return Chunk{}, fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	if len(resp.Choices) == 0 {
		return Chunk{}, nil
	}
	choice := resp.Choices[0]
	return Chunk{
		Content:      choice.Delta.Content,
		FinishReason: string(choice.FinishReason),
	}, nil
}

func (s *chunkStream) Close() error {
	s.stream.Close()
	return nil
}
