package implementation

import (
	"context"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/mapper"
	"exam-proctoring-be/internal/model"
	"exam-proctoring-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EvidenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CheatingMapper
}

func NewEvidenceRepository(db *gorm.DB) contract.EvidenceRepository {
	return &EvidenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewCheatingMapper(),
	}
}

// AppendImage counts under a lock on the parent event so concurrent
// appends cannot overshoot the cap.
func (r *EvidenceRepositoryImpl) AppendImage(ctx context.Context, eventId uuid.UUID, image []byte, limit int) (bool, error) {
	stored := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model.CheatingEvent{}, "id = ?", eventId).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.CheatingImage{}).
			Where("event_id = ?", eventId).
			Count(&count).Error; err != nil {
			return err
		}
		if limit > 0 && count >= int64(limit) {
			return nil
		}

		if err := tx.Create(&model.CheatingImage{EventId: eventId, Image: image}).Error; err != nil {
			return err
		}
		stored = true
		return nil
	})
	return stored, err
}

func (r *EvidenceRepositoryImpl) AppendAudio(ctx context.Context, eventId uuid.UUID, audio []byte, limit int) (bool, error) {
	stored := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model.CheatingEvent{}, "id = ?", eventId).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.CheatingAudio{}).
			Where("event_id = ?", eventId).
			Count(&count).Error; err != nil {
			return err
		}
		if limit > 0 && count >= int64(limit) {
			return nil
		}

		if err := tx.Create(&model.CheatingAudio{EventId: eventId, Audio: audio}).Error; err != nil {
			return err
		}
		stored = true
		return nil
	})
	return stored, err
}

func (r *EvidenceRepositoryImpl) CountImages(ctx context.Context, eventId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CheatingImage{}).
		Where("event_id = ?", eventId).
		Count(&count).Error
	return count, err
}

func (r *EvidenceRepositoryImpl) CountAudios(ctx context.Context, eventId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CheatingAudio{}).
		Where("event_id = ?", eventId).
		Count(&count).Error
	return count, err
}

func (r *EvidenceRepositoryImpl) FindImages(ctx context.Context, eventId uuid.UUID) ([]*entity.CheatingImage, error) {
	var models []*model.CheatingImage
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	images := make([]*entity.CheatingImage, len(models))
	for i, m := range models {
		images[i] = r.mapper.ImageToEntity(m)
	}
	return images, nil
}

func (r *EvidenceRepositoryImpl) FindAudios(ctx context.Context, eventId uuid.UUID) ([]*entity.CheatingAudio, error) {
	var models []*model.CheatingAudio
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	audios := make([]*entity.CheatingAudio, len(models))
	for i, m := range models {
		audios[i] = r.mapper.AudioToEntity(m)
	}
	return audios, nil
}
