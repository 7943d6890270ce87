// Package rag implements retrieval-augmented answering: hybrid search over
// indexed project content, prompt assembly, and the cached ask/chat flows
// built on top of internal/aiclient.
package rag

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encoderCache caches one tiktoken encoding per model name: building an
// encoder is expensive enough that every call site sharing one pays off.
type encoderCache struct {
	mu       sync.Mutex
	encoders map[string]*tiktoken.Tiktoken
}

var tokenCache = &encoderCache{encoders: make(map[string]*tiktoken.Tiktoken)}

func (c *encoderCache) get(model string) *tiktoken.Tiktoken {
	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encoders[model]; ok {
		return enc
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			// cl100k_base ships with the library; this should never happen.
			c.encoders[model] = nil
			return nil
		}
	}
	c.encoders[model] = enc
	return enc
}

// EstimateTokens returns the token count of text under model's encoding,
// falling back to a conservative length/4 heuristic if no encoder is
// available at all.
func EstimateTokens(model, text string) int {
	enc := tokenCache.get(model)
	if enc == nil {
		return len(text)/4 + 1
	}
	return len(enc.Encode(text, nil, nil))
}

// EstimateMessageTokens estimates the tokens one chat turn will cost,
// including the per-message role/formatting overhead OpenAI's chat format
// adds (~4 tokens per message).
func EstimateMessageTokens(model, role, content string) int {
	return EstimateTokens(model, content) + EstimateTokens(model, role) + 4
}

// TrimToBudget drops oldest messages (messages[i].role/content pairs, as
// "role: content" strings) from the front of history until the running
// total fits within maxTokens, always keeping at least the most recent
// message, even when it alone exceeds maxTokens.
func TrimToBudget(model string, history []string, maxTokens int) []string {
	total := 0
	counts := make([]int, len(history))
	for i, h := range history {
		counts[i] = EstimateTokens(model, h)
		total += counts[i]
	}

	start := 0
	for total > maxTokens && start < len(history)-1 {
		total -= counts[start]
		start++
	}
	return history[start:]
}
