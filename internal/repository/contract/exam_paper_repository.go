package contract

import (
	"context"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ExamPaperRepository interface {
	Create(ctx context.Context, paper *entity.ExamPaper) error
	Update(ctx context.Context, paper *entity.ExamPaper) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ExamPaper, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExamPaper, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
