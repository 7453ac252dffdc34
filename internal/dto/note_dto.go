package dto

import (
	"time"

	"notehub-be/internal/entity"

	"github.com/google/uuid"
)

// CreateNoteRequest carries the scalar fields of a multipart note create.
// Tags arrives as a JSON-encoded string ("[\"work\",\"ideas\"]"); files are
// read from the multipart form separately.
type CreateNoteRequest struct {
	Title   string `json:"title" form:"title" validate:"required,min=1,max=100"`
	Content string `json:"content" form:"content" validate:"required"`
	Tags    string `json:"tags" form:"tags"`
}

// UpdateNoteRequest has no required tags: empty fields keep their previous
// values (partial-update semantics).
type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string    `json:"title" form:"title" validate:"omitempty,max=100"`
	Content string    `json:"content" form:"content"`
	Tags    string    `json:"tags" form:"tags"`
}

// UploadedFile is a decoded multipart upload, detached from the HTTP layer
// so services stay testable.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ListNotesFilter struct {
	Search string
	Tag    string
}

type NoteResponse struct {
	Id          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Tags        []string            `json:"tags"`
	Attachments []entity.Attachment `json:"attachments"`
	UserId      uuid.UUID           `json:"user"`
	IsPublic    bool                `json:"isPublic"`
	ShareId     *string             `json:"shareId,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at,omitempty"`
}

func NoteResponseFromEntity(n *entity.Note) *NoteResponse {
	if n == nil {
		return nil
	}
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	attachments := n.Attachments
	if attachments == nil {
		attachments = []entity.Attachment{}
	}
	return &NoteResponse{
		Id:          n.Id,
		Title:       n.Title,
		Content:     n.Content,
		Tags:        tags,
		Attachments: attachments,
		UserId:      n.UserId,
		IsPublic:    n.IsPublic,
		ShareId:     n.ShareId,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

type ShareNoteResponse struct {
	ShareLink string        `json:"shareLink"`
	Note      *NoteResponse `json:"note"`
}
