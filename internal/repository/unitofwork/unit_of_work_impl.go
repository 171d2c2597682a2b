package unitofwork

import (
	"context"
	"fmt"

	"exam-proctoring-be/internal/repository/contract"
	"exam-proctoring-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) StudentRepository() contract.StudentRepository {
	return implementation.NewStudentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ExamPaperRepository() contract.ExamPaperRepository {
	return implementation.NewExamPaperRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ExamAttemptRepository() contract.ExamAttemptRepository {
	return implementation.NewExamAttemptRepository(u.getDB())
}

func (u *UnitOfWorkImpl) StudentAnswerRepository() contract.StudentAnswerRepository {
	return implementation.NewStudentAnswerRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CheatingEventRepository() contract.CheatingEventRepository {
	return implementation.NewCheatingEventRepository(u.getDB())
}

func (u *UnitOfWorkImpl) EvidenceRepository() contract.EvidenceRepository {
	return implementation.NewEvidenceRepository(u.getDB())
}
