package services

import (
	"context"
	"time"

	"github.com/yungbote/petlabel-backend/internal/platform/logger"
	"github.com/yungbote/petlabel-backend/internal/platform/redis"
)

const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
)

// Notifier publishes fire-and-forget domain notifications. Callers log
// returned errors and carry on.
type Notifier interface {
	LabelsSubmitted(ctx context.Context, ev SubmissionEvent) error
	ImageProcessed(ctx context.Context, imageID string, metadata map[string]any) error
	SystemAlert(ctx context.Context, errorType, details, severity string) error
}

type notifier struct {
	bus     redis.NotificationBus
	log     *logger.Logger
	service string
	now     func() time.Time
}

// NewNotifier publishes through bus. service names the emitter in alerts.
func NewNotifier(bus redis.NotificationBus, log *logger.Logger, service string) Notifier {
	if bus == nil {
		bus = redis.NopBus{}
	}
	if service == "" {
		service = "petlabel-api"
	}
	return &notifier{bus: bus, log: log.With("service", "Notifier"), service: service, now: time.Now}
}

func (n *notifier) LabelsSubmitted(ctx context.Context, ev SubmissionEvent) error {
	return n.bus.Publish(ctx, redis.Notification{
		Topic:   redis.TopicLabelSubmissions,
		Subject: "New Image Labels Submitted",
		Attributes: map[string]string{
			"event_type": "label_submission",
			"image_id":   ev.ImageID,
			"user_id":    ev.LabeledBy,
		},
		Body: map[string]any{
			"imageId":    ev.ImageID,
			"labelCount": len(ev.Labels),
			"labelTypes": ev.LabelTypeCounts(),
			"labeledBy":  ev.LabeledByName,
			"timestamp":  ev.At.UTC().Format(time.RFC3339Nano),
		},
		PublishedAt: n.now().UTC(),
	})
}

func (n *notifier) ImageProcessed(ctx context.Context, imageID string, metadata map[string]any) error {
	now := n.now().UTC()
	return n.bus.Publish(ctx, redis.Notification{
		Topic:      redis.TopicImageUploads,
		Subject:    "Image Processed",
		Attributes: map[string]string{"image_id": imageID},
		Body: map[string]any{
			"imageId":     imageID,
			"metadata":    metadata,
			"processedAt": now.Format(time.RFC3339Nano),
		},
		PublishedAt: now,
	})
}

func (n *notifier) SystemAlert(ctx context.Context, errorType, details, severity string) error {
	if severity == "" {
		severity = SeverityHigh
	}
	now := n.now().UTC()
	return n.bus.Publish(ctx, redis.Notification{
		Topic:      redis.TopicSystemAlerts,
		Subject:    "[" + severity + "] Error in " + n.service,
		Attributes: map[string]string{"severity": severity},
		Body: map[string]any{
			"errorType":    errorType,
			"errorDetails": details,
			"severity":     severity,
			"timestamp":    now.Format(time.RFC3339Nano),
			"service":      n.service,
		},
		PublishedAt: now,
	})
}
