package mapper

import (
	"time"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type StudentMapper struct{}

func NewStudentMapper() *StudentMapper {
	return &StudentMapper{}
}

func (m *StudentMapper) ToEntity(s *model.Student) *entity.Student {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Student{
		Id:           s.Id,
		FullName:     s.FullName,
		Email:        s.Email,
		Address:      s.Address,
		FaceEncoding: s.FaceEncoding.Slice(),
		Status:       entity.StudentStatus(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *StudentMapper) ToModel(s *entity.Student) *model.Student {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Student{
		Id:           s.Id,
		FullName:     s.FullName,
		Email:        s.Email,
		Address:      s.Address,
		FaceEncoding: pgvector.NewVector(s.FaceEncoding),
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *StudentMapper) ToEntities(models []*model.Student) []*entity.Student {
	entities := make([]*entity.Student, len(models))
	for i, s := range models {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
