package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamPaper struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string         `gorm:"type:varchar(255);not null"`
	Subject         string         `gorm:"type:varchar(100);not null"`
	Description     string         `gorm:"type:text"`
	DurationMinutes int            `gorm:"not null"`
	ExamDate        time.Time      `gorm:"not null;index"`
	TotalMarks      int            `gorm:"not null;default:0"`
	PassingMarks    int            `gorm:"not null;default:0"`
	IsActive        bool           `gorm:"not null;default:true;index"`
	Questions       []Question     `gorm:"foreignKey:ExamPaperId"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (ExamPaper) TableName() string {
	return "exam_papers"
}

type Question struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExamPaperId   uuid.UUID `gorm:"type:uuid;not null;index"`
	QuestionText  string    `gorm:"type:text;not null"`
	QuestionType  string    `gorm:"type:varchar(20);not null;default:'mcq'"`
	OptionA       string    `gorm:"type:varchar(500)"`
	OptionB       string    `gorm:"type:varchar(500)"`
	OptionC       string    `gorm:"type:varchar(500)"`
	OptionD       string    `gorm:"type:varchar(500)"`
	CorrectAnswer string    `gorm:"type:varchar(1)"`
	Marks         int       `gorm:"not null;default:1"`
	SortOrder     int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Question) TableName() string {
	return "questions"
}

type ExamAttempt struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	ExamPaperId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status             string     `gorm:"type:varchar(20);not null;default:'ongoing';index"`
	StartedAt          time.Time  `gorm:"autoCreateTime"`
	SubmittedAt        *time.Time
	TotalMarksObtained float64   `gorm:"not null;default:0"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

type StudentAnswer struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AttemptId      uuid.UUID `gorm:"type:uuid;not null;index"`
	QuestionId     uuid.UUID `gorm:"type:uuid;not null;index"`
	SelectedOption string    `gorm:"type:varchar(1)"`
	IsCorrect      bool      `gorm:"not null;default:false"`
	AnswerText     string    `gorm:"type:text"`
	MarksObtained  float64   `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
