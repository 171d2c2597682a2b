package service

import (
	"context"
	"time"

	"exam-proctoring-be/internal/dto"
	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/internal/repository/specification"
	"exam-proctoring-be/internal/repository/unitofwork"
	"exam-proctoring-be/pkg/session"

	"github.com/google/uuid"
)

type IExamService interface {
	GetAvailableExams(ctx context.Context, studentId uuid.UUID) ([]*dto.ExamPaperResponse, error)
	StartAttempt(ctx context.Context, studentId uuid.UUID, req *dto.StartAttemptRequest) (*dto.StartAttemptResponse, error)
	SubmitExam(ctx context.Context, studentId uuid.UUID, req *dto.SubmitExamRequest) (*dto.SubmitExamResponse, error)
	GetResult(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.AttemptResultResponse, error)
}

type examService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *session.Registry
	logger     logger.ILogger
}

func NewExamService(uowFactory unitofwork.RepositoryFactory, registry *session.Registry, log logger.ILogger) IExamService {
	return &examService{
		uowFactory: uowFactory,
		registry:   registry,
		logger:     log,
	}
}

func (s *examService) GetAvailableExams(ctx context.Context, studentId uuid.UUID) ([]*dto.ExamPaperResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	papers, err := uow.ExamPaperRepository().FindAll(ctx,
		specification.ActivePapers{},
		specification.UpcomingOrOngoing{Now: time.Now()},
		specification.WithQuestions{},
		specification.OrderBy{Field: "exam_date", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ExamPaperResponse, len(papers))
	for i, p := range papers {
		out[i] = &dto.ExamPaperResponse{
			Id:              p.Id,
			Title:           p.Title,
			Subject:         p.Subject,
			Description:     p.Description,
			DurationMinutes: p.DurationMinutes,
			ExamDate:        p.ExamDate,
			TotalMarks:      p.TotalMarks,
			QuestionCount:   len(p.Questions),
		}
	}
	return out, nil
}

// StartAttempt reuses an existing ongoing attempt so a page refresh
// does not burn a second one.
func (s *examService) StartAttempt(ctx context.Context, studentId uuid.UUID, req *dto.StartAttemptRequest) (*dto.StartAttemptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	paper, err := uow.ExamPaperRepository().FindOne(ctx,
		specification.ByID{ID: req.ExamPaperId},
		specification.ActivePapers{},
		specification.WithQuestions{},
	)
	if err != nil {
		return nil, err
	}
	if paper == nil {
		return nil, ErrExamNotFound
	}

	attempt, err := uow.ExamAttemptRepository().FindOne(ctx,
		specification.ByStudentID{StudentID: studentId},
		specification.ByExamPaperID{ExamPaperID: req.ExamPaperId},
		specification.ByAttemptStatus{Status: string(entity.AttemptStatusOngoing)},
	)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		attempt = &entity.ExamAttempt{
			Id:          uuid.New(),
			StudentId:   studentId,
			ExamPaperId: req.ExamPaperId,
			Status:      entity.AttemptStatusOngoing,
			StartedAt:   time.Now(),
		}
		if err := uow.ExamAttemptRepository().Create(ctx, attempt); err != nil {
			return nil, err
		}
		s.logger.Info("ExamService", "Attempt started", map[string]interface{}{
			"student_id": studentId.String(),
			"attempt_id": attempt.Id.String(),
		})
	}

	questions := make([]dto.QuestionResponse, len(paper.Questions))
	for i, q := range paper.Questions {
		questions[i] = dto.QuestionResponse{
			Id:           q.Id,
			QuestionText: q.QuestionText,
			QuestionType: string(q.QuestionType),
			OptionA:      q.OptionA,
			OptionB:      q.OptionB,
			OptionC:      q.OptionC,
			OptionD:      q.OptionD,
			Marks:        q.Marks,
			Order:        q.Order,
		}
	}

	return &dto.StartAttemptResponse{
		AttemptId:       attempt.Id,
		ExamPaperId:     paper.Id,
		Title:           paper.Title,
		DurationMinutes: paper.DurationMinutes,
		Questions:       questions,
		StartedAt:       attempt.StartedAt,
	}, nil
}

// SubmitExam grades the MCQ answers, stores everything in one
// transaction, and ends the proctoring session.
func (s *examService) SubmitExam(ctx context.Context, studentId uuid.UUID, req *dto.SubmitExamRequest) (*dto.SubmitExamResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	attempt, err := uow.ExamAttemptRepository().FindOne(ctx, specification.ByID{ID: req.AttemptId})
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrAttemptNotFound
	}
	if attempt.StudentId != studentId {
		return nil, ErrAttemptNotOwned
	}
	switch attempt.Status {
	case entity.AttemptStatusOngoing, entity.AttemptStatusDisconnected:
	case entity.AttemptStatusSubmitted:
		return nil, ErrAlreadySubmitted
	default:
		return nil, ErrAttemptNotOngoing
	}

	paper, err := uow.ExamPaperRepository().FindOne(ctx,
		specification.ByID{ID: attempt.ExamPaperId},
		specification.WithQuestions{},
	)
	if err != nil {
		return nil, err
	}
	if paper == nil {
		return nil, ErrExamNotFound
	}

	questionsById := make(map[uuid.UUID]*entity.Question, len(paper.Questions))
	for _, q := range paper.Questions {
		questionsById[q.Id] = q
	}

	var total float64
	answers := make([]*entity.StudentAnswer, 0, len(req.Answers))
	for _, sub := range req.Answers {
		q, ok := questionsById[sub.QuestionId]
		if !ok {
			continue
		}
		answer := &entity.StudentAnswer{
			Id:             uuid.New(),
			AttemptId:      attempt.Id,
			QuestionId:     q.Id,
			SelectedOption: sub.SelectedOption,
			AnswerText:     sub.AnswerText,
		}
		if q.QuestionType == entity.QuestionTypeMCQ && sub.SelectedOption != "" && sub.SelectedOption == q.CorrectAnswer {
			answer.IsCorrect = true
			answer.MarksObtained = float64(q.Marks)
			total += answer.MarksObtained
		}
		answers = append(answers, answer)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.StudentAnswerRepository().CreateBatch(ctx, answers); err != nil {
		return nil, err
	}

	now := time.Now()
	attempt.Status = entity.AttemptStatusSubmitted
	attempt.SubmittedAt = &now
	attempt.TotalMarksObtained = total
	if err := uow.ExamAttemptRepository().Update(ctx, attempt); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// The monitoring loops stop once the attempt is decided; a missing
	// session (candidate already disconnected) is fine.
	if _, err := s.registry.Stop(attempt.Id, session.StatusSubmitted); err != nil {
		s.logger.Info("ExamService", "No live session at submit", map[string]interface{}{
			"attempt_id": attempt.Id.String(),
		})
	}

	s.logger.Info("ExamService", "Attempt submitted", map[string]interface{}{
		"attempt_id": attempt.Id.String(),
		"marks":      total,
	})

	return &dto.SubmitExamResponse{
		AttemptId:          attempt.Id,
		Status:             string(attempt.Status),
		TotalMarksObtained: total,
		TotalMarks:         paper.TotalMarks,
		SubmittedAt:        now,
	}, nil
}

func (s *examService) GetResult(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.AttemptResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	attempt, err := uow.ExamAttemptRepository().FindOne(ctx, specification.ByID{ID: attemptId})
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrAttemptNotFound
	}
	if attempt.StudentId != studentId {
		return nil, ErrAttemptNotOwned
	}

	paper, err := uow.ExamPaperRepository().FindOne(ctx, specification.ByID{ID: attempt.ExamPaperId})
	if err != nil {
		return nil, err
	}
	title, totalMarks := "", 0
	if paper != nil {
		title = paper.Title
		totalMarks = paper.TotalMarks
	}

	return &dto.AttemptResultResponse{
		AttemptId:          attempt.Id,
		ExamPaperId:        attempt.ExamPaperId,
		Title:              title,
		Status:             string(attempt.Status),
		TotalMarksObtained: attempt.TotalMarksObtained,
		TotalMarks:         totalMarks,
		StartedAt:          attempt.StartedAt,
		SubmittedAt:        attempt.SubmittedAt,
	}, nil
}
