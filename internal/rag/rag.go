package rag

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/aiclient"
	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
	"github.com/renohub/core/internal/skills"
)

const (
	askTopK        = 5
	askTemperature = 0.4
	askMaxTokens   = 1500
	askCacheTTL    = 5 * time.Minute
	askSkillName   = "ask-answer"

	askFallbackPreface = "You are a renovation project assistant. Answer only from the project context below; if the answer isn't there, say you don't know."
)

// Engine answers free-text questions about a project by fusing hybrid
// search results into a grounded prompt, backed by Postgres-resident
// retrieval rather than an in-process vector index.
type Engine struct {
	embeddings Searcher
	embedder   EmbeddingProvider
	chat       aiclient.Client
	cache      repository.CacheRepository
	skills     skills.Registry
	weights    ArmWeights
}

func NewEngine(embeddings Searcher, embedder EmbeddingProvider, chat aiclient.Client, cache repository.CacheRepository, reg skills.Registry) Engine {
	return Engine{embeddings: embeddings, embedder: embedder, chat: chat, cache: cache, skills: reg, weights: DefaultArmWeights}
}

// AskResult is the answer plus the hits that grounded it, so callers can
// cite sources back to the user.
type AskResult struct {
	Answer string
	Hits   []domain.SearchHit
	Cached bool
}

// Ask answers a question about projectID, serving a cached answer when the
// same question was asked within the last 5 minutes. projectContext is the
// structured project/stage/budget block BuildProjectContext produces —
// callers that have nothing to add may pass an empty string.
func (e Engine) Ask(ctx context.Context, projectID uuid.UUID, question, projectContext string) (AskResult, error) {
	cacheKey := askCacheKey(projectID, question)

	if raw, ok, err := e.cache.Get(ctx, cacheKey); err == nil && ok {
		return AskResult{Answer: string(raw), Cached: true}, nil
	}

	hits, err := HybridSearch(ctx, e.embeddings, e.embedder, projectID, question, askTopK, e.weights)
	if err != nil {
		return AskResult{}, err
	}

	systemPrompt := e.skills.Prompt(askSkillName, askFallbackPreface)
	prompt := buildContextPrompt(projectContext, hits)
	answer, err := e.chat.Chat(ctx, aiclient.ChatParams{
		Messages: []aiclient.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "system", Content: prompt},
			{Role: "user", Content: question},
		},
		Temperature: askTemperature,
		MaxTokens:   askMaxTokens,
	})
	if err != nil {
		return AskResult{}, err
	}

	_ = e.cache.Set(ctx, cacheKey, []byte(answer), askCacheTTL)
	return AskResult{Answer: answer, Hits: hits}, nil
}

func buildContextPrompt(projectContext string, hits []domain.SearchHit) string {
	var b strings.Builder
	if projectContext != "" {
		b.WriteString(projectContext)
		b.WriteString("\n\n")
	}
	if len(hits) == 0 {
		b.WriteString("No indexed project content matched this question.")
		return b.String()
	}
	b.WriteString("Relevant history:\n")
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. %s\n", i+1, h.Embedding.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// askCacheKey matches the spec's ask:<project_id>:<12-hex md5> format.
func askCacheKey(projectID uuid.UUID, question string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(question))))
	return "ask:" + projectID.String() + ":" + hex.EncodeToString(sum[:])[:12]
}
