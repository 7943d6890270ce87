package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// vector is a stand-in pgvector wire codec: the example pack carries no
// pgvector Go client, so embeddings travel over pgx using the extension's
// plain-text input/output format ("[0.1,0.2,...]"), which Postgres accepts
// for both literal parameters and query results. See DESIGN.md for why this
// stays on encoding/fmt rather than a third-party client.
type vector []float32

// encodeVector renders a []float32 in the textual form the vector
// extension understands as input.
func encodeVector(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// decodeVector parses the textual form Postgres returns for a vector
// column ("[0.1,0.2,...]").
func decodeVector(raw string) ([]float32, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("repository: decoding vector component %q: %w", p, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
