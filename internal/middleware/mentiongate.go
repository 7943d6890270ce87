// Package middleware implements the mention gate, context resolution, and
// project resolver that sit between the adapter supervisor and the FSM
// router.
package middleware

import (
	"regexp"
	"strings"

	"github.com/renohub/core/internal/config"
)

// Update is the minimal shape the mention gate needs from an inbound
// platform event; adapters translate their native update types into this
// before the gate runs.
type Update struct {
	IsGroupChat      bool
	IsCommand        bool
	IsReplyToBot     bool
	MentionsUsername bool // text carries a user-mention entity for this bot's @username
	MentionsBotID    bool // text carries a text-mention entity for this bot's user id
	Text             string
	IsMessageEvent   bool // false for callbacks, membership changes, etc.
}

// MentionGate decides whether a group-chat message is directed at the bot.
type MentionGate struct {
	enabled  bool
	patterns []*regexp.Regexp
}

func NewMentionGate(cfg config.MentionGateConfig) (MentionGate, error) {
	patterns := make([]*regexp.Regexp, 0, len(cfg.CustomPatterns))
	for _, p := range cfg.CustomPatterns {
		// RE2's \b only knows ASCII word characters, so the word boundary is
		// spelled out with Unicode letter/digit classes to cover Cyrillic.
		re, err := regexp.Compile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(p) + `(?:$|[^\p{L}\p{N}_])`)
		if err != nil {
			continue // malformed custom pattern: skip rather than fail startup
		}
		patterns = append(patterns, re)
	}
	return MentionGate{enabled: cfg.Enabled, patterns: patterns}, nil
}

// Passes reports whether u should reach the handler pipeline.
func (g MentionGate) Passes(u Update) bool {
	if !g.enabled {
		return true
	}
	if !u.IsMessageEvent || !u.IsGroupChat {
		return true
	}
	if u.IsCommand || u.IsReplyToBot || u.MentionsUsername || u.MentionsBotID {
		return true
	}
	text := strings.TrimSpace(u.Text)
	for _, re := range g.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
