package services

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	labelIDSuffixLen = 7
	base36           = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// LabelIDGenerator issues "<epoch-ms>-<7 base36 chars>" ids.
type LabelIDGenerator struct {
	IntN func(n int) int
}

func NewLabelIDGenerator() *LabelIDGenerator {
	return &LabelIDGenerator{IntN: rand.IntN}
}

// Batch returns n ids stamped with at, distinct from each other even though
// they share a millisecond. Uniqueness across batches rests on the random suffix.
func (g *LabelIDGenerator) Batch(n int, at time.Time) []string {
	if n <= 0 {
		return nil
	}
	prefix := strconv.FormatInt(at.UnixMilli(), 10) + "-"
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		id := prefix + g.suffix()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (g *LabelIDGenerator) suffix() string {
	intN := rand.IntN
	if g.IntN != nil {
		intN = g.IntN
	}
	b := make([]byte, labelIDSuffixLen)
	for i := range b {
		b[i] = base36[intN(len(base36))]
	}
	return string(b)
}
