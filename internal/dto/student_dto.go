package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterStudentRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address"`

	// FaceImage is a base64 JPEG used to build the stored face encoding.
	FaceImage string `json:"face_image" validate:"required"`
}

type RegisterStudentResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type StudentProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
