package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renohub/core/internal/config"
)

func TestMentionGate_Passes(t *testing.T) {
	gate, err := NewMentionGate(config.MentionGateConfig{Enabled: true, CustomPatterns: []string{"бот", "помощник"}})
	require.NoError(t, err)

	cases := []struct {
		name string
		u    Update
		want bool
	}{
		{"private chat always passes", Update{IsMessageEvent: true, IsGroupChat: false, Text: "hello"}, true},
		{"non-message event always passes", Update{IsMessageEvent: false, IsGroupChat: true}, true},
		{"command passes", Update{IsMessageEvent: true, IsGroupChat: true, IsCommand: true}, true},
		{"reply to bot passes", Update{IsMessageEvent: true, IsGroupChat: true, IsReplyToBot: true}, true},
		{"username mention passes", Update{IsMessageEvent: true, IsGroupChat: true, MentionsUsername: true}, true},
		{"custom pattern passes", Update{IsMessageEvent: true, IsGroupChat: true, Text: "эй, бот, привет"}, true},
		{"undirected group message fails", Update{IsMessageEvent: true, IsGroupChat: true, Text: "просто болтаем"}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, gate.Passes(c.u), c.name)
	}
}

func TestMentionGate_DisabledPassesEverything(t *testing.T) {
	gate, err := NewMentionGate(config.MentionGateConfig{Enabled: false})
	require.NoError(t, err)
	assert.True(t, gate.Passes(Update{IsMessageEvent: true, IsGroupChat: true, Text: "anything"}))
}
