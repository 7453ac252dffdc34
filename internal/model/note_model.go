package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Note struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string         `gorm:"type:varchar(100);not null"`
	Content     string         `gorm:"type:text;not null"`
	Tags        datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Attachments datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	IsPublic    bool           `gorm:"not null;default:false"`
	ShareId     *string        `gorm:"type:varchar(64);uniqueIndex"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime;index"`
}

func (Note) TableName() string {
	return "notes"
}
