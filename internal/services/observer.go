package services

import (
	"context"
	"time"

	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/observability"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

// SubmissionEvent describes a label batch that was fully persisted.
type SubmissionEvent struct {
	ImageID       string
	Labels        []*types.Label
	LabeledBy     string
	LabeledByName string
	At            time.Time
}

// LabelTypeCounts tallies the batch per label type.
func (ev SubmissionEvent) LabelTypeCounts() map[string]int {
	out := make(map[string]int, len(ev.Labels))
	for _, l := range ev.Labels {
		if l == nil {
			continue
		}
		out[l.LabelType]++
	}
	return out
}

// SubmissionObserver receives best-effort side effects of label submission.
// Implementations swallow their own failures.
type SubmissionObserver interface {
	LabelsSubmitted(ctx context.Context, ev SubmissionEvent)
	SubmissionFailed(ctx context.Context, imageID string, err error)
}

type NoopObserver struct{}

func (NoopObserver) LabelsSubmitted(context.Context, SubmissionEvent) {}

func (NoopObserver) SubmissionFailed(context.Context, string, error) {}

// MultiObserver fans out to every member in order.
type MultiObserver []SubmissionObserver

func (m MultiObserver) LabelsSubmitted(ctx context.Context, ev SubmissionEvent) {
	for _, o := range m {
		if o != nil {
			o.LabelsSubmitted(ctx, ev)
		}
	}
}

func (m MultiObserver) SubmissionFailed(ctx context.Context, imageID string, err error) {
	for _, o := range m {
		if o != nil {
			o.SubmissionFailed(ctx, imageID, err)
		}
	}
}

type metricsObserver struct {
	m *observability.Metrics
}

// NewMetricsObserver counts labels per type and batches per outcome.
func NewMetricsObserver(m *observability.Metrics) SubmissionObserver {
	return &metricsObserver{m: m}
}

func (o *metricsObserver) LabelsSubmitted(_ context.Context, ev SubmissionEvent) {
	for labelType, n := range ev.LabelTypeCounts() {
		o.m.IncLabelsSubmitted(labelType, n)
	}
	o.m.IncLabelBatch("ok")
}

func (o *metricsObserver) SubmissionFailed(context.Context, string, error) {
	o.m.IncLabelBatch("failed")
}

type notificationObserver struct {
	notifier Notifier
	metrics  *observability.Metrics
	log      *logger.Logger
	timeout  time.Duration
}

// NewNotificationObserver publishes a submission notice on success and a
// system alert on failure.
func NewNotificationObserver(n Notifier, m *observability.Metrics, log *logger.Logger) SubmissionObserver {
	return &notificationObserver{
		notifier: n,
		metrics:  m,
		log:      log.With("service", "NotificationObserver"),
		timeout:  3 * time.Second,
	}
}

// detach keeps the publish alive when the request context is already done.
func (o *notificationObserver) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
}

func (o *notificationObserver) LabelsSubmitted(ctx context.Context, ev SubmissionEvent) {
	if o.notifier == nil {
		return
	}
	pctx, cancel := o.detach(ctx)
	defer cancel()
	if err := o.notifier.LabelsSubmitted(pctx, ev); err != nil {
		o.metrics.IncNotificationFailure("label-submissions")
		o.log.Warn("label submission notification failed", "image_id", ev.ImageID, "error", err)
	}
}

func (o *notificationObserver) SubmissionFailed(ctx context.Context, imageID string, cause error) {
	if o.notifier == nil {
		return
	}
	pctx, cancel := o.detach(ctx)
	defer cancel()
	details := "image " + imageID
	if cause != nil {
		details += ": " + cause.Error()
	}
	if err := o.notifier.SystemAlert(pctx, "LabelSubmissionError", details, SeverityHigh); err != nil {
		o.metrics.IncNotificationFailure("system-alerts")
		o.log.Warn("system alert publish failed", "image_id", imageID, "error", err)
	}
}
