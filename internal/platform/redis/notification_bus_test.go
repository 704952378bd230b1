package redis

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewNotificationBusRequiresAddr(t *testing.T) {
	if _, err := NewNotificationBus(nil, BusConfig{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("expected error without logger")
	}
}

func TestChannelNaming(t *testing.T) {
	if got := Channel("petlabel", TopicLabelSubmissions); got != "petlabel:label-submissions" {
		t.Fatalf("Channel: got=%q", got)
	}
}

func TestNotificationEnvelopeShape(t *testing.T) {
	raw, err := json.Marshal(Notification{
		Topic:      TopicSystemAlerts,
		Subject:    "[HIGH] Error in submit-labels",
		Attributes: map[string]string{"severity": "HIGH"},
		Body:       map[string]any{"errorType": "dependency_error"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"topic", "subject", "attributes", "body", "publishedAt"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("envelope missing %q: %s", key, raw)
		}
	}
}

func TestNopBus(t *testing.T) {
	var bus NotificationBus = NopBus{}
	if err := bus.Publish(context.Background(), Notification{Topic: TopicImageUploads}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
