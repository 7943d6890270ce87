package stage

import (
	"strings"
	"time"

	"github.com/renohub/core/internal/domain"
)

// dateLayouts are tried in order; the spec's chat UI accepts all three
// written forms interchangeably.
var dateLayouts = []string{"02.01.2006", "02/01/2006", "2006-01-02"}

// ParseDate accepts DD.MM.YYYY, DD/MM/YYYY, or YYYY-MM-DD.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.Validation("couldn't parse that date — try DD.MM.YYYY")
}
