package dto

import (
	"time"

	"github.com/google/uuid"
)

type ExamPaperResponse struct {
	Id              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	ExamDate        time.Time `json:"exam_date"`
	TotalMarks      int       `json:"total_marks"`
	QuestionCount   int       `json:"question_count"`
}

// QuestionResponse never carries the correct answer to the exam page.
type QuestionResponse struct {
	Id           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	QuestionType string    `json:"question_type"`
	OptionA      string    `json:"option_a,omitempty"`
	OptionB      string    `json:"option_b,omitempty"`
	OptionC      string    `json:"option_c,omitempty"`
	OptionD      string    `json:"option_d,omitempty"`
	Marks        int       `json:"marks"`
	Order        int       `json:"order"`
}

type StartAttemptRequest struct {
	ExamPaperId uuid.UUID `json:"exam_paper_id" validate:"required"`
}

type StartAttemptResponse struct {
	AttemptId       uuid.UUID          `json:"attempt_id"`
	ExamPaperId     uuid.UUID          `json:"exam_paper_id"`
	Title           string             `json:"title"`
	DurationMinutes int                `json:"duration_minutes"`
	Questions       []QuestionResponse `json:"questions"`
	StartedAt       time.Time          `json:"started_at"`
}

type AnswerSubmission struct {
	QuestionId     uuid.UUID `json:"question_id" validate:"required"`
	SelectedOption string    `json:"selected_option" validate:"omitempty,oneof=A B C D"`
	AnswerText     string    `json:"answer_text"`
}

type SubmitExamRequest struct {
	AttemptId uuid.UUID          `json:"attempt_id"`
	Answers   []AnswerSubmission `json:"answers" validate:"dive"`
}

type SubmitExamResponse struct {
	AttemptId          uuid.UUID `json:"attempt_id"`
	Status             string    `json:"status"`
	TotalMarksObtained float64   `json:"total_marks_obtained"`
	TotalMarks         int       `json:"total_marks"`
	SubmittedAt        time.Time `json:"submitted_at"`
}

type AttemptResultResponse struct {
	AttemptId          uuid.UUID  `json:"attempt_id"`
	ExamPaperId        uuid.UUID  `json:"exam_paper_id"`
	Title              string     `json:"title"`
	Status             string     `json:"status"`
	TotalMarksObtained float64    `json:"total_marks_obtained"`
	TotalMarks         int        `json:"total_marks"`
	StartedAt          time.Time  `json:"started_at"`
	SubmittedAt        *time.Time `json:"submitted_at"`
}
