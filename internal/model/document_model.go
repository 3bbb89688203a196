package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename        string    `gorm:"type:varchar(512);not null"`
	ProjectId       uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index"`
	Status          string    `gorm:"type:varchar(32);not null;default:'UPLOADING'"`
	ContentType     *string   `gorm:"type:varchar(255)"`
	AddedColContext *string   `gorm:"type:text"`
	StorageKey      string    `gorm:"type:varchar(512)"`
	SizeBytes       int64     `gorm:"not null;default:0"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
