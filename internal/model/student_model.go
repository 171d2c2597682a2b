package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Student struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string          `gorm:"type:varchar(255);not null"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Address      string          `gorm:"type:text"`
	FaceEncoding pgvector.Vector `gorm:"type:vector(128)"`
	Status       string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt  `gorm:"index"`
}

func (Student) TableName() string {
	return "students"
}
