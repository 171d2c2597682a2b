package implementation

import (
	"context"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/mapper"
	"exam-proctoring-be/internal/model"
	"exam-proctoring-be/internal/repository/contract"
	"exam-proctoring-be/internal/repository/specification"

	"gorm.io/gorm"
)

type StudentAnswerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExamMapper
}

func NewStudentAnswerRepository(db *gorm.DB) contract.StudentAnswerRepository {
	return &StudentAnswerRepositoryImpl{
		db:     db,
		mapper: mapper.NewExamMapper(),
	}
}

func (r *StudentAnswerRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StudentAnswerRepositoryImpl) Create(ctx context.Context, answer *entity.StudentAnswer) error {
	m := r.mapper.AnswerToModel(answer)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*answer = *r.mapper.AnswerToEntity(m)
	return nil
}

func (r *StudentAnswerRepositoryImpl) CreateBatch(ctx context.Context, answers []*entity.StudentAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	models := make([]*model.StudentAnswer, len(answers))
	for i, a := range answers {
		models[i] = r.mapper.AnswerToModel(a)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*answers[i] = *r.mapper.AnswerToEntity(m)
	}
	return nil
}

func (r *StudentAnswerRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudentAnswer, error) {
	var models []*model.StudentAnswer
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.AnswersToEntities(models), nil
}
