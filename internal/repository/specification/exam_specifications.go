package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivePapers struct{}

func (s ActivePapers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// UpcomingOrOngoing keeps papers whose exam window has not passed.
type UpcomingOrOngoing struct {
	Now time.Time
}

func (s UpcomingOrOngoing) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("exam_date >= ?", s.Now.Truncate(24*time.Hour))
}

type ByExamPaperID struct {
	ExamPaperID uuid.UUID
}

func (s ByExamPaperID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("exam_paper_id = ?", s.ExamPaperID)
}

type ByAttemptStatus struct {
	Status string
}

func (s ByAttemptStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type WithQuestions struct{}

func (s WithQuestions) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}
