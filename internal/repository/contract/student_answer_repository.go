package contract

import (
	"context"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/repository/specification"
)

type StudentAnswerRepository interface {
	Create(ctx context.Context, answer *entity.StudentAnswer) error
	CreateBatch(ctx context.Context, answers []*entity.StudentAnswer) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudentAnswer, error)
}
