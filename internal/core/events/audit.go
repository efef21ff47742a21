package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/clinic-management/internal/core/metrics"
)

// AuditSubscriber writes permission changes to the log and the change counter.
type AuditSubscriber struct {
	logger *slog.Logger
}

func NewAuditSubscriber(logger *slog.Logger) *AuditSubscriber {
	return &AuditSubscriber{logger: logger}
}

func (a *AuditSubscriber) Register(bus *EventBus) {
	bus.Subscribe(EventTypePermissionGranted, a.HandlePermissionChanged)
	bus.Subscribe(EventTypePermissionRevoked, a.HandlePermissionChanged)
}

func (a *AuditSubscriber) HandlePermissionChanged(ctx context.Context, event Event) error {
	e, ok := event.(*PermissionChangedEvent)
	if !ok {
		return fmt.Errorf("audit: unexpected event %T for %s", event, event.EventType())
	}

	action := "grant"
	if e.Type == EventTypePermissionRevoked {
		action = "revoke"
	}

	a.logger.InfoContext(ctx, "permission audit",
		"action", action,
		"subject_type", e.SubjectType,
		"subject_id", e.SubjectID,
		"permission", e.Permission,
		"actor_id", e.ActorID,
		"changed", e.Changed,
		"event_id", e.ID,
	)
	if e.Changed {
		metrics.IncPermissionChange(action, e.SubjectType)
	}
	return nil
}
