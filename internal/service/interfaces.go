package service

import (
	"context"
	"time"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

// LifecycleServicer defines the engine operations exposed to the transport
// layer.
type LifecycleServicer interface {
	SubmitText(ctx context.Context, text string) (domain.ParseResponse, error)
	SubmitProposal(ctx context.Context, proposed domain.ProposedEvent, ambiguities []domain.Ambiguity) (domain.ParseResponse, error)
	ConfirmProposal(ctx context.Context, id string, final domain.ProposedEvent) (domain.Event, error)
	RejectProposal(ctx context.Context, id string) (domain.ParseResponse, error)
	GetProposal(ctx context.Context, id string) (domain.ParseResponse, error)
	ListPending(ctx context.Context) ([]domain.ParseResponse, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ShareEvent(ctx context.Context, id string, targets []string) (domain.Event, error)
	EventTimeline(ctx context.Context, id string) ([]domain.TimelineEntry, error)
	AdvanceClock(ctx context.Context, now time.Time) ([]domain.Reminder, time.Time, error)
}
