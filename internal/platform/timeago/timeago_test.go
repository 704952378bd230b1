package timeago

import (
	"testing"
	"time"
)

func TestFormatBoundaries(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{60 * time.Second, "1 min ago"},
		{61 * time.Second, "1 min ago"},
		{150 * time.Second, "2 mins ago"},
		{3599 * time.Second, "59 mins ago"},
		{3600 * time.Second, "1 hour ago"},
		{3661 * time.Second, "1 hour ago"},
		{7200 * time.Second, "2 hours ago"},
		{86399 * time.Second, "23 hours ago"},
		{86400 * time.Second, "1 day ago"},
		{90000 * time.Second, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{-5 * time.Minute, "just now"},
	}
	for _, tc := range cases {
		if got := Format(now, now.Add(-tc.ago)); got != tc.want {
			t.Fatalf("Format(-%v): want=%q got=%q", tc.ago, tc.want, got)
		}
	}
}

func TestFormatMillis(t *testing.T) {
	nowMs := int64(1_700_000_000_000)
	if got := FormatMillis(nowMs, nowMs-59000); got != "just now" {
		t.Fatalf("59s: got=%q", got)
	}
	if got := FormatMillis(nowMs, nowMs-61000); got != "1 min ago" {
		t.Fatalf("61s: got=%q", got)
	}
	if got := FormatMillis(nowMs, nowMs-3661000); got != "1 hour ago" {
		t.Fatalf("3661s: got=%q", got)
	}
	if got := FormatMillis(nowMs, nowMs-90000000); got != "1 day ago" {
		t.Fatalf("90000s: got=%q", got)
	}
}
