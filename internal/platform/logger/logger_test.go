package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"authorization", "Bearer abc",
		"email", "someone@example.com",
		"labeled_by", "user-1",
		"image_id", "dog.jpg",
		"dangling",
	})
	if len(out) != 9 {
		t.Fatalf("len: want=9 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("authorization: want=[REDACTED] got=%v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("email: want=[REDACTED] got=%v", out[3])
	}
	hashed, _ := out[5].(string)
	if !strings.HasPrefix(hashed, "hash:") || len(hashed) != len("hash:")+12 {
		t.Fatalf("labeled_by: want hash:<12> got=%q", hashed)
	}
	if out[7] != "dog.jpg" {
		t.Fatalf("image_id: want=dog.jpg got=%v", out[7])
	}
	if out[8] != "dangling" {
		t.Fatalf("dangling key: want preserved got=%v", out[8])
	}
}

func TestSanitizeValueHidesJWTShapedStrings(t *testing.T) {
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyLTEifQ.sig"
	if got := sanitizeValue("note", jwtish); got != "[REDACTED]" {
		t.Fatalf("want=[REDACTED] got=%v", got)
	}
	nested := sanitizeValue("payload", map[string]interface{}{"user_id": "u1", "type": "breed"}).(map[string]interface{})
	if nested["type"] != "breed" {
		t.Fatalf("nested type: want=breed got=%v", nested["type"])
	}
	if s, _ := nested["user_id"].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("nested user_id: want hashed got=%v", nested["user_id"])
	}
}

func TestHashValueIsStable(t *testing.T) {
	if hashValue("u1") != hashValue("u1") {
		t.Fatalf("hash not stable")
	}
	if hashValue("") != "" {
		t.Fatalf("empty: want empty hash")
	}
}
