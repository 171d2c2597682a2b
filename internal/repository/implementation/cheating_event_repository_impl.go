package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/mapper"
	"exam-proctoring-be/internal/model"
	"exam-proctoring-be/internal/repository/contract"
	"exam-proctoring-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheatingEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CheatingMapper
}

func NewCheatingEventRepository(db *gorm.DB) contract.CheatingEventRepository {
	return &CheatingEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewCheatingMapper(),
	}
}

func (r *CheatingEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// GetOrCreateOpen relies on the unique index over
// (student_id, attempt_id, event_type): the insert is a no-op when the
// row already exists, and the follow-up read returns whichever row won.
// Safe under concurrent callers.
func (r *CheatingEventRepositoryImpl) GetOrCreateOpen(ctx context.Context, studentId, attemptId uuid.UUID, eventType string) (*entity.CheatingEvent, bool, error) {
	m := &model.CheatingEvent{
		StudentId:       studentId,
		AttemptId:       attemptId,
		EventType:       eventType,
		DetectedObjects: datatypes.JSON([]byte("[]")),
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0

	var found model.CheatingEvent
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND attempt_id = ? AND event_type = ?", studentId, attemptId, eventType).
		First(&found).Error
	if err != nil {
		return nil, false, err
	}
	return r.mapper.ToEntity(&found), created, nil
}

func (r *CheatingEventRepositoryImpl) IncrementTabSwitch(ctx context.Context, id uuid.UUID) (int, error) {
	err := r.db.WithContext(ctx).
		Model(&model.CheatingEvent{}).
		Where("id = ?", id).
		Update("tab_switch_count", gorm.Expr("tab_switch_count + 1")).Error
	if err != nil {
		return 0, err
	}

	var m model.CheatingEvent
	if err := r.db.WithContext(ctx).Select("tab_switch_count").First(&m, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return m.TabSwitchCount, nil
}

func (r *CheatingEventRepositoryImpl) SetConfirmed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.CheatingEvent{}).
		Where("id = ?", id).
		Update("cheating_flag", true).Error
}

// MergeLabels reads the current label set under a row lock so that two
// detectors reporting at once cannot drop each other's labels.
func (r *CheatingEventRepositoryImpl) MergeLabels(ctx context.Context, id uuid.UUID, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.CheatingEvent
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "id = ?", id).Error; err != nil {
			return err
		}

		var existing []string
		if len(m.DetectedObjects) > 0 {
			_ = json.Unmarshal(m.DetectedObjects, &existing)
		}

		seen := make(map[string]struct{}, len(existing))
		for _, l := range existing {
			seen[l] = struct{}{}
		}
		changed := false
		for _, l := range labels {
			if _, ok := seen[l]; !ok {
				seen[l] = struct{}{}
				existing = append(existing, l)
				changed = true
			}
		}
		if !changed {
			return nil
		}

		merged, err := json.Marshal(existing)
		if err != nil {
			return err
		}
		return tx.Model(&model.CheatingEvent{}).
			Where("id = ?", id).
			Update("detected_objects", datatypes.JSON(merged)).Error
	})
}

func (r *CheatingEventRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CheatingEvent, error) {
	var m model.CheatingEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CheatingEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CheatingEvent, error) {
	var models []*model.CheatingEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CheatingEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CheatingEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
