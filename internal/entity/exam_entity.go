package entity

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionTypeMCQ        QuestionType = "mcq"
	QuestionTypeSubjective QuestionType = "subjective"
)

type AttemptStatus string

const (
	AttemptStatusOngoing      AttemptStatus = "ongoing"
	AttemptStatusSubmitted    AttemptStatus = "submitted"
	AttemptStatusTerminated   AttemptStatus = "terminated"
	AttemptStatusDisconnected AttemptStatus = "disconnected"
)

type ExamPaper struct {
	Id              uuid.UUID
	Title           string
	Subject         string
	Description     string
	DurationMinutes int
	ExamDate        time.Time
	TotalMarks      int
	PassingMarks    int
	IsActive        bool
	Questions       []*Question
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type Question struct {
	Id           uuid.UUID
	ExamPaperId  uuid.UUID
	QuestionText string
	QuestionType QuestionType

	// MCQ fields
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string

	Marks     int
	Order     int
	CreatedAt time.Time
}

type ExamAttempt struct {
	Id          uuid.UUID
	StudentId   uuid.UUID
	ExamPaperId uuid.UUID
	Status      AttemptStatus

	StartedAt   time.Time
	SubmittedAt *time.Time

	TotalMarksObtained float64
}

type StudentAnswer struct {
	Id         uuid.UUID
	AttemptId  uuid.UUID
	QuestionId uuid.UUID

	// MCQ
	SelectedOption string
	IsCorrect      bool

	// Subjective (evaluated later, out of band)
	AnswerText string

	MarksObtained float64
	CreatedAt     time.Time
}
