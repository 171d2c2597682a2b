package unitofwork

import (
	"context"

	"exam-proctoring-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	StudentRepository() contract.StudentRepository
	ExamPaperRepository() contract.ExamPaperRepository
	ExamAttemptRepository() contract.ExamAttemptRepository
	StudentAnswerRepository() contract.StudentAnswerRepository
	CheatingEventRepository() contract.CheatingEventRepository
	EvidenceRepository() contract.EvidenceRepository
}
