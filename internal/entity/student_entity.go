package entity

import (
	"time"

	"github.com/google/uuid"
)

type StudentStatus string

const (
	StudentStatusPending  StudentStatus = "pending"
	StudentStatusApproved StudentStatus = "approved"
	StudentStatusRejected StudentStatus = "rejected"
)

type Student struct {
	Id       uuid.UUID
	FullName string
	Email    string
	Address  string

	// FaceEncoding is the stored embedding the identity subsystem compares
	// login captures against. Written once at registration.
	FaceEncoding []float32

	Status    StudentStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}
