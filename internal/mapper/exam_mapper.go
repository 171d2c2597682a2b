package mapper

import (
	"time"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/model"
)

type ExamMapper struct{}

func NewExamMapper() *ExamMapper {
	return &ExamMapper{}
}

func (m *ExamMapper) PaperToEntity(p *model.ExamPaper) *entity.ExamPaper {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	questions := make([]*entity.Question, len(p.Questions))
	for i := range p.Questions {
		questions[i] = m.QuestionToEntity(&p.Questions[i])
	}

	return &entity.ExamPaper{
		Id:              p.Id,
		Title:           p.Title,
		Subject:         p.Subject,
		Description:     p.Description,
		DurationMinutes: p.DurationMinutes,
		ExamDate:        p.ExamDate,
		TotalMarks:      p.TotalMarks,
		PassingMarks:    p.PassingMarks,
		IsActive:        p.IsActive,
		Questions:       questions,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *ExamMapper) PaperToModel(p *entity.ExamPaper) *model.ExamPaper {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	questions := make([]model.Question, len(p.Questions))
	for i, q := range p.Questions {
		questions[i] = *m.QuestionToModel(q)
	}

	return &model.ExamPaper{
		Id:              p.Id,
		Title:           p.Title,
		Subject:         p.Subject,
		Description:     p.Description,
		DurationMinutes: p.DurationMinutes,
		ExamDate:        p.ExamDate,
		TotalMarks:      p.TotalMarks,
		PassingMarks:    p.PassingMarks,
		IsActive:        p.IsActive,
		Questions:       questions,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *ExamMapper) PapersToEntities(models []*model.ExamPaper) []*entity.ExamPaper {
	entities := make([]*entity.ExamPaper, len(models))
	for i, p := range models {
		entities[i] = m.PaperToEntity(p)
	}
	return entities
}

func (m *ExamMapper) QuestionToEntity(q *model.Question) *entity.Question {
	if q == nil {
		return nil
	}
	return &entity.Question{
		Id:            q.Id,
		ExamPaperId:   q.ExamPaperId,
		QuestionText:  q.QuestionText,
		QuestionType:  entity.QuestionType(q.QuestionType),
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectAnswer: q.CorrectAnswer,
		Marks:         q.Marks,
		Order:         q.SortOrder,
		CreatedAt:     q.CreatedAt,
	}
}

func (m *ExamMapper) QuestionToModel(q *entity.Question) *model.Question {
	if q == nil {
		return nil
	}
	return &model.Question{
		Id:            q.Id,
		ExamPaperId:   q.ExamPaperId,
		QuestionText:  q.QuestionText,
		QuestionType:  string(q.QuestionType),
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectAnswer: q.CorrectAnswer,
		Marks:         q.Marks,
		SortOrder:     q.Order,
		CreatedAt:     q.CreatedAt,
	}
}

func (m *ExamMapper) AttemptToEntity(a *model.ExamAttempt) *entity.ExamAttempt {
	if a == nil {
		return nil
	}
	return &entity.ExamAttempt{
		Id:                 a.Id,
		StudentId:          a.StudentId,
		ExamPaperId:        a.ExamPaperId,
		Status:             entity.AttemptStatus(a.Status),
		StartedAt:          a.StartedAt,
		SubmittedAt:        a.SubmittedAt,
		TotalMarksObtained: a.TotalMarksObtained,
	}
}

func (m *ExamMapper) AttemptToModel(a *entity.ExamAttempt) *model.ExamAttempt {
	if a == nil {
		return nil
	}
	return &model.ExamAttempt{
		Id:                 a.Id,
		StudentId:          a.StudentId,
		ExamPaperId:        a.ExamPaperId,
		Status:             string(a.Status),
		StartedAt:          a.StartedAt,
		SubmittedAt:        a.SubmittedAt,
		TotalMarksObtained: a.TotalMarksObtained,
	}
}

func (m *ExamMapper) AttemptsToEntities(models []*model.ExamAttempt) []*entity.ExamAttempt {
	entities := make([]*entity.ExamAttempt, len(models))
	for i, a := range models {
		entities[i] = m.AttemptToEntity(a)
	}
	return entities
}

func (m *ExamMapper) AnswerToEntity(a *model.StudentAnswer) *entity.StudentAnswer {
	if a == nil {
		return nil
	}
	return &entity.StudentAnswer{
		Id:             a.Id,
		AttemptId:      a.AttemptId,
		QuestionId:     a.QuestionId,
		SelectedOption: a.SelectedOption,
		IsCorrect:      a.IsCorrect,
		AnswerText:     a.AnswerText,
		MarksObtained:  a.MarksObtained,
		CreatedAt:      a.CreatedAt,
	}
}

func (m *ExamMapper) AnswerToModel(a *entity.StudentAnswer) *model.StudentAnswer {
	if a == nil {
		return nil
	}
	return &model.StudentAnswer{
		Id:             a.Id,
		AttemptId:      a.AttemptId,
		QuestionId:     a.QuestionId,
		SelectedOption: a.SelectedOption,
		IsCorrect:      a.IsCorrect,
		AnswerText:     a.AnswerText,
		MarksObtained:  a.MarksObtained,
		CreatedAt:      a.CreatedAt,
	}
}

func (m *ExamMapper) AnswersToEntities(models []*model.StudentAnswer) []*entity.StudentAnswer {
	entities := make([]*entity.StudentAnswer, len(models))
	for i, a := range models {
		entities[i] = m.AnswerToEntity(a)
	}
	return entities
}
