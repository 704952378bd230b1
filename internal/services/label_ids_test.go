package services

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

var labelIDPattern = regexp.MustCompile(`^1714564800000-[0-9a-z]{7}$`)

func TestLabelIDBatchFormat(t *testing.T) {
	g := NewLabelIDGenerator()

	ids := g.Batch(25, t0)
	if len(ids) != 25 {
		t.Fatalf("len: want=25 got=%d", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if !labelIDPattern.MatchString(id) {
			t.Fatalf("format: got=%q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id in batch: %s", id)
		}
		seen[id] = true
	}
	if g.Batch(0, t0) != nil {
		t.Fatalf("Batch(0): want nil")
	}
}

func TestLabelIDBatchRetriesCollisions(t *testing.T) {
	// Yields an all-zero suffix twice, then an all-one suffix.
	calls := 0
	g := &LabelIDGenerator{
		IntN: func(int) int {
			calls++
			if calls <= 2*labelIDSuffixLen {
				return 0
			}
			return 1
		},
	}
	ids := g.Batch(2, t0)
	if ids[0] != "1714564800000-0000000" || ids[1] != "1714564800000-1111111" {
		t.Fatalf("collision retry: got=%v", ids)
	}
}

func TestLabelIDUsesGivenInstant(t *testing.T) {
	at := time.Date(2031, 3, 4, 5, 6, 7, 891_000_000, time.UTC)
	ids := NewLabelIDGenerator().Batch(1, at)
	if !strings.HasPrefix(ids[0], strconv.FormatInt(at.UnixMilli(), 10)+"-") {
		t.Fatalf("id prefix: want=%d- got=%s", at.UnixMilli(), ids[0])
	}
}
