// Package ocr reads medicine names off scanned prescriptions.
package ocr

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// ErrEmptyImage is returned when no image bytes were supplied.
var ErrEmptyImage = errors.New("ocr: empty image")

// Engine turns an image into plain text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Match is an inventory medicine found in the recognised text.
type Match struct {
	Line     int            `json:"line"`
	Text     string         `json:"text"`
	Medicine model.Medicine `json:"medicine"`
}

// MatchMedicines returns the medicines whose name appears on a line of text, each at most once,
// ordered by the line it was first seen on. Longer names win when several match the same line.
func MatchMedicines(text string, medicines []model.Medicine) []Match {
	candidates := make([]model.Medicine, 0, len(medicines))
	for _, m := range medicines {
		if strings.TrimSpace(m.Name) != "" {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Name) > len(candidates[j].Name)
	})

	seen := make(map[int64]bool)
	var out []Match
	for i, raw := range strings.Split(text, "\n") {
		line := normalize(raw)
		if line == "" {
			continue
		}
		for _, m := range candidates {
			if seen[m.ID] {
				continue
			}
			if strings.Contains(line, normalize(m.Name)) {
				seen[m.ID] = true
				out = append(out, Match{Line: i + 1, Text: strings.TrimSpace(raw), Medicine: m})
			}
		}
	}
	return out
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
