package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByStudentID struct {
	StudentID uuid.UUID
}

func (s ByStudentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("student_id = ?", s.StudentID)
}

type ByAttemptID struct {
	AttemptID uuid.UUID
}

func (s ByAttemptID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("attempt_id = ?", s.AttemptID)
}

type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}

type ConfirmedOnly struct{}

func (s ConfirmedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cheating_flag = ?", true)
}
