package service

import (
	"context"

	"exam-proctoring-be/internal/dto"
	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/internal/repository/specification"
	"exam-proctoring-be/internal/repository/unitofwork"
	"exam-proctoring-be/pkg/aggregator"
	"exam-proctoring-be/pkg/sensor"
	"exam-proctoring-be/pkg/session"

	"github.com/google/uuid"
)

type IProctoringService interface {
	StartSession(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.StartSessionResponse, error)
	StopSession(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.StopSessionResponse, error)
	GetWarning(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.WarningResponse, error)
	RecordTabSwitch(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.TabSwitchResponse, error)
	IngestFrame(ctx context.Context, studentId, attemptId uuid.UUID, jpeg []byte) error
	IngestAudio(ctx context.Context, studentId, attemptId uuid.UUID, pcm []byte) error
	RecentEvents(ctx context.Context, limit int) ([]*dto.ProctorEventResponse, error)
	AttemptEvents(ctx context.Context, attemptId uuid.UUID) ([]*dto.ProctorEventResponse, error)
}

type proctoringService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *session.Registry
	agg        *aggregator.Aggregator
	feeds      *sensor.Hub
	logger     logger.ILogger
}

func NewProctoringService(
	uowFactory unitofwork.RepositoryFactory,
	registry *session.Registry,
	agg *aggregator.Aggregator,
	feeds *sensor.Hub,
	log logger.ILogger,
) IProctoringService {
	return &proctoringService{
		uowFactory: uowFactory,
		registry:   registry,
		agg:        agg,
		feeds:      feeds,
		logger:     log,
	}
}

func (s *proctoringService) ownedOngoingAttempt(ctx context.Context, studentId, attemptId uuid.UUID) (*entity.ExamAttempt, error) {
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
	if attempt.Status == entity.AttemptStatusTerminated {
		return nil, aggregator.ErrAttemptTerminated
	}
	if attempt.Status != entity.AttemptStatusOngoing {
		return nil, ErrAttemptNotOngoing
	}
	return attempt, nil
}

func (s *proctoringService) StartSession(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.StartSessionResponse, error) {
	if _, err := s.ownedOngoingAttempt(ctx, studentId, attemptId); err != nil {
		return nil, err
	}

	if err := s.registry.Start(ctx, studentId, attemptId); err != nil {
		return nil, err
	}

	s.logger.Info("ProctoringService", "Session started", map[string]interface{}{
		"student_id": studentId.String(),
		"attempt_id": attemptId.String(),
	})
	return &dto.StartSessionResponse{
		AttemptId: attemptId,
		Status:    string(session.StatusRunning),
	}, nil
}

// StopSession ends the monitoring loops without deciding the attempt:
// the exam page calls this on unload, and the candidate may reconnect.
func (s *proctoringService) StopSession(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.StopSessionResponse, error) {
	if _, err := s.ownedOngoingAttempt(ctx, studentId, attemptId); err != nil {
		return nil, err
	}

	final, err := s.registry.Stop(attemptId, session.StatusDisconnected)
	if err != nil {
		return nil, err
	}
	return &dto.StopSessionResponse{
		AttemptId: attemptId,
		Status:    string(final),
	}, nil
}

func (s *proctoringService) GetWarning(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.WarningResponse, error) {
	warning := s.agg.Warnings().Get(attemptId.String())

	tabCount := 0
	uow := s.uowFactory.NewUnitOfWork(ctx)
	event, err := uow.CheatingEventRepository().FindOne(ctx,
		specification.ByStudentID{StudentID: studentId},
		specification.ByAttemptID{AttemptID: attemptId},
		specification.ByEventType{EventType: entity.EventTabSwitch},
	)
	if err != nil {
		// The poll endpoint stays usable when the DB hiccups; the
		// warning itself is in memory.
		s.logger.Warn("ProctoringService", "Tab switch lookup failed", map[string]interface{}{"error": err.Error()})
	} else if event != nil {
		tabCount = event.TabSwitchCount
	}

	return &dto.WarningResponse{
		Warning:        warning,
		TabSwitchCount: tabCount,
	}, nil
}

func (s *proctoringService) RecordTabSwitch(ctx context.Context, studentId, attemptId uuid.UUID) (*dto.TabSwitchResponse, error) {
	if _, err := s.ownedOngoingAttempt(ctx, studentId, attemptId); err != nil {
		return nil, err
	}

	result, err := s.agg.HandleTabSwitch(ctx, studentId, attemptId)
	if err != nil {
		return nil, err
	}

	resp := &dto.TabSwitchResponse{
		Status:       "updated",
		Count:        result.Count,
		CheatingFlag: result.CheatingFlag,
	}
	if result.Terminated {
		resp.Status = "terminated"
		resp.Message = "Exam terminated due to excessive tab switching."
	}
	return resp, nil
}

func (s *proctoringService) IngestFrame(ctx context.Context, studentId, attemptId uuid.UUID, jpeg []byte) error {
	if _, err := s.ownedOngoingAttempt(ctx, studentId, attemptId); err != nil {
		return err
	}
	s.feeds.PushFrame(attemptId.String(), jpeg)
	s.registry.Touch(attemptId)
	return nil
}

func (s *proctoringService) IngestAudio(ctx context.Context, studentId, attemptId uuid.UUID, pcm []byte) error {
	if _, err := s.ownedOngoingAttempt(ctx, studentId, attemptId); err != nil {
		return err
	}
	s.feeds.PushChunk(attemptId.String(), pcm)
	s.registry.Touch(attemptId)
	return nil
}

func (s *proctoringService) RecentEvents(ctx context.Context, limit int) ([]*dto.ProctorEventResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	events, err := uow.CheatingEventRepository().FindAll(ctx,
		specification.ConfirmedOnly{},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}
	return toProctorEvents(events), nil
}

func (s *proctoringService) AttemptEvents(ctx context.Context, attemptId uuid.UUID) ([]*dto.ProctorEventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	events, err := uow.CheatingEventRepository().FindAll(ctx,
		specification.ByAttemptID{AttemptID: attemptId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	return toProctorEvents(events), nil
}

func toProctorEvents(events []*entity.CheatingEvent) []*dto.ProctorEventResponse {
	out := make([]*dto.ProctorEventResponse, len(events))
	for i, ev := range events {
		out[i] = &dto.ProctorEventResponse{
			Id:              ev.Id,
			StudentId:       ev.StudentId,
			AttemptId:       ev.AttemptId,
			EventType:       ev.EventType,
			CheatingFlag:    ev.CheatingFlag,
			TabSwitchCount:  ev.TabSwitchCount,
			DetectedObjects: ev.DetectedObjects,
			CreatedAt:       ev.CreatedAt,
		}
	}
	return out
}

// terminationHandler implements the aggregator's Terminator: the
// attempt is marked terminated first, then the session is torn down off
// the event path so in-flight loops can drain.
type terminationHandler struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *session.Registry
	logger     logger.ILogger
}

func NewTerminationHandler(uowFactory unitofwork.RepositoryFactory, registry *session.Registry, log logger.ILogger) *terminationHandler {
	return &terminationHandler{
		uowFactory: uowFactory,
		registry:   registry,
		logger:     log,
	}
}

func (t *terminationHandler) Terminate(ctx context.Context, attemptId uuid.UUID) error {
	uow := t.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ExamAttemptRepository().SetStatus(ctx, attemptId, entity.AttemptStatusTerminated); err != nil {
		return err
	}

	go func() {
		if _, err := t.registry.Stop(attemptId, session.StatusTerminated); err != nil {
			t.logger.Warn("ProctoringService", "No live session to terminate", map[string]interface{}{
				"attempt_id": attemptId.String(),
			})
		}
	}()

	t.logger.Info("ProctoringService", "Attempt terminated", map[string]interface{}{
		"attempt_id": attemptId.String(),
	})
	return nil
}
