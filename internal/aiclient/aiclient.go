// Package aiclient wraps the AI provider used for chat completion,
// embeddings, and voice transcription behind a single unified-message
// abstraction, covering only what the RAG and voice-ingest flows need
// (no streaming, no tool calling).
package aiclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/renohub/core/internal/config"
	"github.com/renohub/core/internal/domain"
)

// ChatMessage is a provider-agnostic chat turn.
type ChatMessage struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// ChatParams configures one chat completion request.
type ChatParams struct {
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// Client is the AI surface the rag and report packages depend on.
type Client struct {
	chat      openai.Client
	embedding openai.Client
	cfg       config.AIProviderConfig
}

// New builds a Client from cfg. Azure and openai_compatible variants both
// go through the same openai-go client pointed at a custom base URL; only
// the option set differs.
func New(cfg config.AIProviderConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return Client{}, err
	}

	chatOpts := []option.RequestOption{option.WithAPIKey(cfg.ChatAPIKey)}
	embedOpts := []option.RequestOption{option.WithAPIKey(cfg.EffectiveEmbeddingAPIKey())}

	switch cfg.Kind {
	case config.ProviderAzure:
		chatOpts = append(chatOpts, option.WithBaseURL(cfg.ChatEndpoint), option.WithQuery("api-version", cfg.AzureAPIVersion))
		embedOpts = append(embedOpts, option.WithBaseURL(cfg.EffectiveEmbeddingEndpoint()), option.WithQuery("api-version", cfg.AzureAPIVersion))
	case config.ProviderOpenAICompatible:
		chatOpts = append(chatOpts, option.WithBaseURL(cfg.ChatEndpoint))
		embedOpts = append(embedOpts, option.WithBaseURL(cfg.EffectiveEmbeddingEndpoint()))
	case config.ProviderOpenAI:
		if cfg.ChatEndpoint != "" {
			chatOpts = append(chatOpts, option.WithBaseURL(cfg.ChatEndpoint))
		}
		if cfg.EffectiveEmbeddingEndpoint() != "" {
			embedOpts = append(embedOpts, option.WithBaseURL(cfg.EffectiveEmbeddingEndpoint()))
		}
	}

	return Client{
		chat:      openai.NewClient(chatOpts...),
		embedding: openai.NewClient(embedOpts...),
		cfg:       cfg,
	}, nil
}

// Chat runs a non-streaming chat completion.
func (c Client) Chat(ctx context.Context, p ChatParams) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(p.Messages))
	for _, m := range p.Messages {
		switch m.Role {
		case "system":
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       c.cfg.ChatModel,
		Messages:    msgs,
		Temperature: openai.Float(p.Temperature),
	}
	if p.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.MaxTokens))
	}
	resp, err := c.chat.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", domain.Upstream("AI chat request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.Upstream("AI chat returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed computes an embedding vector for a single text.
func (c Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.embedding.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
	})
	if err != nil {
		return nil, domain.Upstream("AI embedding request failed", err)
	}
	if len(resp.Data) == 0 {
		return nil, domain.Upstream("AI embedding returned no data", nil)
	}
	return normalize(resp.Data[0].Embedding), nil
}

// Transcribe returns a configuration_error if no STT API key is configured
// (STTEndpoint is not consulted). With a key set it returns an
// upstream_error: no speech-to-text request is sent to any endpoint.
func (c Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if strings.TrimSpace(c.cfg.STTAPIKey) == "" {
		return "", domain.Configuration("voice transcription isn't configured for this tenant")
	}
	return "", domain.Upstream(fmt.Sprintf("transcription for %s not yet wired to a live endpoint", filename), nil)
}

func normalize(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
