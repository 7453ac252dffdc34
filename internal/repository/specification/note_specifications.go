package specification

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnedByUser struct {
	UserID uuid.UUID
}

func (s OwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// SearchQuery matches the term case-insensitively against title OR content.
type SearchQuery struct {
	Query string
}

func (s SearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}

// HasTag filters notes whose JSONB tags array contains exactly the given tag.
type HasTag struct {
	Tag string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	needle, _ := json.Marshal([]string{s.Tag})
	return db.Where("tags @> ?", string(needle))
}

type ByShareId struct {
	ShareId string
}

func (s ByShareId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("share_id = ?", s.ShareId)
}

type IsPublic struct{}

func (s IsPublic) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_public = ?", true)
}
