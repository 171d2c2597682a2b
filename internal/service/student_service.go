package service

import (
	"context"
	"encoding/base64"
	"errors"

	"exam-proctoring-be/internal/dto"
	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/internal/repository/specification"
	"exam-proctoring-be/internal/repository/unitofwork"
	"exam-proctoring-be/pkg/detector"

	"github.com/google/uuid"
)

var (
	ErrStudentExists   = errors.New("student already registered")
	ErrStudentNotFound = errors.New("student not found")
	ErrNoFaceDetected  = errors.New("no face detected in registration image")
)

type IStudentService interface {
	Register(ctx context.Context, req *dto.RegisterStudentRequest) (*dto.RegisterStudentResponse, error)
	GetProfile(ctx context.Context, studentId uuid.UUID) (*dto.StudentProfileResponse, error)
}

type studentService struct {
	uowFactory unitofwork.RepositoryFactory
	faces      detector.FaceAnalyzer
	logger     logger.ILogger
}

func NewStudentService(uowFactory unitofwork.RepositoryFactory, faces detector.FaceAnalyzer, log logger.ILogger) IStudentService {
	return &studentService{
		uowFactory: uowFactory,
		faces:      faces,
		logger:     log,
	}
}

// Register stores the student with a face encoding extracted from the
// registration photo. Approval is a separate step; new students start
// pending.
func (s *studentService) Register(ctx context.Context, req *dto.RegisterStudentRequest) (*dto.RegisterStudentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.StudentRepository().FindOne(ctx, specification.Filter("email", req.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStudentExists
	}

	photo, err := base64.StdEncoding.DecodeString(req.FaceImage)
	if err != nil {
		return nil, ErrNoFaceDetected
	}

	encoding, err := s.faces.Encode(ctx, photo)
	if err != nil {
		if errors.Is(err, detector.ErrDetectorFailure) {
			return nil, ErrNoFaceDetected
		}
		return nil, err
	}

	student := &entity.Student{
		Id:           uuid.New(),
		FullName:     req.FullName,
		Email:        req.Email,
		Address:      req.Address,
		FaceEncoding: encoding,
		Status:       entity.StudentStatusPending,
	}
	if err := uow.StudentRepository().Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("StudentService", "Student registered", map[string]interface{}{
		"student_id": student.Id.String(),
	})
	return &dto.RegisterStudentResponse{
		Id:     student.Id,
		Status: string(student.Status),
	}, nil
}

func (s *studentService) GetProfile(ctx context.Context, studentId uuid.UUID) (*dto.StudentProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	student, err := uow.StudentRepository().FindOne(ctx, specification.ByID{ID: studentId})
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	return &dto.StudentProfileResponse{
		Id:        student.Id,
		FullName:  student.FullName,
		Email:     student.Email,
		Address:   student.Address,
		Status:    string(student.Status),
		CreatedAt: student.CreatedAt,
	}, nil
}
