package implementation

import (
	"context"
	"errors"
	"time"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/mapper"
	"exam-proctoring-be/internal/model"
	"exam-proctoring-be/internal/repository/contract"
	"exam-proctoring-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamAttemptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExamMapper
}

func NewExamAttemptRepository(db *gorm.DB) contract.ExamAttemptRepository {
	return &ExamAttemptRepositoryImpl{
		db:     db,
		mapper: mapper.NewExamMapper(),
	}
}

func (r *ExamAttemptRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ExamAttemptRepositoryImpl) Create(ctx context.Context, attempt *entity.ExamAttempt) error {
	m := r.mapper.AttemptToModel(attempt)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*attempt = *r.mapper.AttemptToEntity(m)
	return nil
}

func (r *ExamAttemptRepositoryImpl) Update(ctx context.Context, attempt *entity.ExamAttempt) error {
	m := r.mapper.AttemptToModel(attempt)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*attempt = *r.mapper.AttemptToEntity(m)
	return nil
}

func (r *ExamAttemptRepositoryImpl) SetStatus(ctx context.Context, id uuid.UUID, status entity.AttemptStatus) error {
	updates := map[string]interface{}{"status": string(status)}
	if status == entity.AttemptStatusSubmitted || status == entity.AttemptStatusTerminated {
		updates["submitted_at"] = time.Now()
	}
	return r.db.WithContext(ctx).
		Model(&model.ExamAttempt{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *ExamAttemptRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ExamAttempt, error) {
	var m model.ExamAttempt
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AttemptToEntity(&m), nil
}

func (r *ExamAttemptRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExamAttempt, error) {
	var models []*model.ExamAttempt
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.AttemptsToEntities(models), nil
}

func (r *ExamAttemptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ExamAttempt{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
