package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is a value record owned by its parent note. It has no lifecycle
// of its own: it is added when files are uploaded and removed either one at a
// time or together with the note.
type Attachment struct {
	Id       uuid.UUID `json:"id"`
	Url      string    `json:"url"`
	Filename string    `json:"filename"`
	Format   string    `json:"format"`
}

type Note struct {
	Id          uuid.UUID
	Title       string
	Content     string
	Tags        []string
	Attachments []Attachment
	UserId      uuid.UUID
	IsPublic    bool
	ShareId     *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// FindAttachment returns the attachment with the given id, or nil.
func (n *Note) FindAttachment(id uuid.UUID) *Attachment {
	for i := range n.Attachments {
		if n.Attachments[i].Id == id {
			return &n.Attachments[i]
		}
	}
	return nil
}

// RemoveAttachment drops the attachment with the given id from the note.
// Returns false when no attachment matched.
func (n *Note) RemoveAttachment(id uuid.UUID) bool {
	for i := range n.Attachments {
		if n.Attachments[i].Id == id {
			n.Attachments = append(n.Attachments[:i], n.Attachments[i+1:]...)
			return true
		}
	}
	return false
}

// HasTag reports exact tag membership.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
