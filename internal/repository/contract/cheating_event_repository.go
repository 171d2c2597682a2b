package contract

import (
	"context"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CheatingEventRepository interface {
	// GetOrCreateOpen returns the single event row for
	// (studentId, attemptId, eventType), creating it when absent. The
	// second return reports whether a new row was created.
	GetOrCreateOpen(ctx context.Context, studentId, attemptId uuid.UUID, eventType string) (*entity.CheatingEvent, bool, error)

	// IncrementTabSwitch atomically bumps the counter and returns the
	// new value.
	IncrementTabSwitch(ctx context.Context, id uuid.UUID) (int, error)

	// SetConfirmed raises the cheating flag on the event.
	SetConfirmed(ctx context.Context, id uuid.UUID) error

	// MergeLabels adds labels to the event's detected set, keeping
	// the set free of duplicates.
	MergeLabels(ctx context.Context, id uuid.UUID, labels []string) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CheatingEvent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CheatingEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
