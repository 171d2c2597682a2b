package contract

import (
	"context"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/repository/specification"

	"github.com/google/uuid"
)

type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	Update(ctx context.Context, student *entity.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Student, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Student, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
