package implementation

import (
	"context"
	"errors"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/mapper"
	"exam-proctoring-be/internal/model"
	"exam-proctoring-be/internal/repository/contract"
	"exam-proctoring-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamPaperRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExamMapper
}

func NewExamPaperRepository(db *gorm.DB) contract.ExamPaperRepository {
	return &ExamPaperRepositoryImpl{
		db:     db,
		mapper: mapper.NewExamMapper(),
	}
}

func (r *ExamPaperRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ExamPaperRepositoryImpl) Create(ctx context.Context, paper *entity.ExamPaper) error {
	m := r.mapper.PaperToModel(paper)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*paper = *r.mapper.PaperToEntity(m)
	return nil
}

func (r *ExamPaperRepositoryImpl) Update(ctx context.Context, paper *entity.ExamPaper) error {
	m := r.mapper.PaperToModel(paper)
	if err := r.db.WithContext(ctx).Omit("Questions").Save(m).Error; err != nil {
		return err
	}
	*paper = *r.mapper.PaperToEntity(m)
	return nil
}

func (r *ExamPaperRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ExamPaper{}, id).Error
}

func (r *ExamPaperRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ExamPaper, error) {
	var m model.ExamPaper
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PaperToEntity(&m), nil
}

func (r *ExamPaperRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExamPaper, error) {
	var models []*model.ExamPaper
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.PapersToEntities(models), nil
}

func (r *ExamPaperRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ExamPaper{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
