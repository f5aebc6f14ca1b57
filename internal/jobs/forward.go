package jobs

import (
	"context"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/telemetry"
)

// ForwardJob mirrors every event onto the external broker.
type ForwardJob struct {
	forwarder events.Forwarder
}

func NewForwardJob(f events.Forwarder) *ForwardJob {
	return &ForwardJob{forwarder: f}
}

var _ Handler = (*ForwardJob)(nil)

func (j *ForwardJob) Handle(ctx context.Context, e events.Event) error {
	err := j.forwarder.Forward(ctx, e)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if telemetry.Business != nil {
		telemetry.Business.EventsForwarded.WithLabelValues(j.forwarder.Name(), status).Inc()
	}

	if err != nil {
		return domain.Unavailable(err, "jobs.forward."+j.forwarder.Name())
	}
	return nil
}
