package postgres

import (
	"fmt"
	"strconv"
	"strings"
)

// vectorToString converts a float32 slice to pgvector literal format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// vectorFromString parses a pgvector literal back into a float32 slice.
func vectorFromString(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("malformed vector literal %q", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, nil
	}

	parts := strings.Split(inner, ",")
	vector := make([]float32, len(parts))
	for i, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("malformed vector component %q: %w", part, err)
		}
		vector[i] = float32(val)
	}
	return vector, nil
}
