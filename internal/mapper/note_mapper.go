package mapper

import (
	"encoding/json"
	"time"

	"notehub-be/internal/entity"
	"notehub-be/internal/model"

	"gorm.io/datatypes"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	tags := make([]string, 0)
	if len(n.Tags) > 0 {
		_ = json.Unmarshal(n.Tags, &tags)
	}

	attachments := make([]entity.Attachment, 0)
	if len(n.Attachments) > 0 {
		_ = json.Unmarshal(n.Attachments, &attachments)
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:          n.Id,
		Title:       n.Title,
		Content:     n.Content,
		Tags:        tags,
		Attachments: attachments,
		UserId:      n.UserId,
		IsPublic:    n.IsPublic,
		ShareId:     n.ShareId,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJson, _ := json.Marshal(tags)

	attachments := n.Attachments
	if attachments == nil {
		attachments = []entity.Attachment{}
	}
	attachmentsJson, _ := json.Marshal(attachments)

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:          n.Id,
		Title:       n.Title,
		Content:     n.Content,
		Tags:        datatypes.JSON(tagsJson),
		Attachments: datatypes.JSON(attachmentsJson),
		UserId:      n.UserId,
		IsPublic:    n.IsPublic,
		ShareId:     n.ShareId,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
