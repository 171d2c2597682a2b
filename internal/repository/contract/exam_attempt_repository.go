package contract

import (
	"context"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ExamAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.ExamAttempt) error
	Update(ctx context.Context, attempt *entity.ExamAttempt) error
	// SetStatus transitions the attempt to status; terminal states
	// (submitted, terminated) also stamp submitted_at.
	SetStatus(ctx context.Context, id uuid.UUID, status entity.AttemptStatus) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ExamAttempt, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExamAttempt, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
