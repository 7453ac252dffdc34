package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notehub-be/internal/dto"
	"notehub-be/internal/entity"
	"notehub-be/internal/pkg/apperror"
	"notehub-be/internal/pkg/logger"
	"notehub-be/internal/repository/specification"
	"notehub-be/internal/repository/unitofwork"
	"notehub-be/pkg/events"

	"github.com/google/uuid"
)

const sharedNoteCacheTTL = 5 * time.Minute

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest, files []*dto.UploadedFile) (*dto.NoteResponse, error)
	List(ctx context.Context, userId uuid.UUID, filter dto.ListNotesFilter) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest, files []*dto.UploadedFile) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Share(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShareNoteResponse, error)
	ShowShared(ctx context.Context, shareId string) (*dto.NoteResponse, error)
	DeleteAttachment(ctx context.Context, userId uuid.UUID, noteId, attachmentId uuid.UUID) (*dto.NoteResponse, error)
}

type noteService struct {
	uowFactory        unitofwork.RepositoryFactory
	attachmentService IAttachmentService
	publisherService  IPublisherService
	sysLogger         logger.ILogger
	sharedCache       SharedNoteCache // optional, may be nil
	baseURL           string
	maxUploadFiles    int
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	attachmentService IAttachmentService,
	publisherService IPublisherService,
	sysLogger logger.ILogger,
	sharedCache SharedNoteCache,
	baseURL string,
	maxUploadFiles int,
) INoteService {
	return &noteService{
		uowFactory:        uowFactory,
		attachmentService: attachmentService,
		publisherService:  publisherService,
		sysLogger:         sysLogger,
		sharedCache:       sharedCache,
		baseURL:           baseURL,
		maxUploadFiles:    maxUploadFiles,
	}
}

// parseTags decodes the JSON-encoded tags field of a multipart request.
// An empty string means "field not submitted".
func parseTags(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, apperror.Validation("tags must be a JSON array of strings")
	}
	return tags, nil
}

func (s *noteService) publishActivity(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisherService == nil {
		return
	}
	msg := dto.ActivityMessage{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

func (s *noteService) storeFiles(ctx context.Context, files []*dto.UploadedFile) ([]entity.Attachment, error) {
	if len(files) > s.maxUploadFiles {
		return nil, apperror.Validation(fmt.Sprintf("a maximum of %d files can be uploaded at once", s.maxUploadFiles))
	}
	attachments := make([]entity.Attachment, 0, len(files))
	for _, file := range files {
		att, err := s.attachmentService.Store(ctx, file)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, *att)
	}
	return attachments, nil
}

func (s *noteService) sharedCacheKey(shareId string) string {
	return "shared_note:" + shareId
}

func (s *noteService) invalidateSharedCache(ctx context.Context, note *entity.Note) {
	if s.sharedCache == nil || note.ShareId == nil {
		return
	}
	if err := s.sharedCache.Del(ctx, s.sharedCacheKey(*note.ShareId)); err != nil {
		s.sysLogger.Warn("note", "failed to invalidate shared note cache", map[string]interface{}{
			"share_id": *note.ShareId,
			"error":    err.Error(),
		})
	}
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest, files []*dto.UploadedFile) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tags, err := parseTags(req.Tags)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}

	attachments, err := s.storeFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	note := entity.Note{
		Id:          uuid.New(),
		Title:       req.Title,
		Content:     req.Content,
		Tags:        tags,
		Attachments: attachments,
		UserId:      userId,
		IsPublic:    false,
		CreatedAt:   time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, apperror.Internal("failed to create note", err)
	}

	s.publishActivity(ctx, events.TypeNoteCreated, map[string]interface{}{
		"note_id": note.Id,
		"user_id": userId,
		"title":   note.Title,
	})

	return dto.NoteResponseFromEntity(&note), nil
}

func (s *noteService) List(ctx context.Context, userId uuid.UUID, filter dto.ListNotesFilter) ([]*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OwnedByUser{UserID: userId},
	}
	if filter.Search != "" {
		specs = append(specs, specification.SearchQuery{Query: filter.Search})
	}
	if filter.Tag != "" {
		specs = append(specs, specification.HasTag{Tag: filter.Tag})
	}
	specs = append(specs, specification.OrderBy{Field: "updated_at", Desc: true})

	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal("failed to list notes", err)
	}

	response := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		response = append(response, dto.NoteResponseFromEntity(note))
	}
	return response, nil
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("failed to find note", err)
	}
	if note == nil {
		return nil, apperror.NotFound("Note not found")
	}
	if note.UserId != userId && !note.IsPublic {
		return nil, apperror.Auth("Not authorized to access this note")
	}

	return dto.NoteResponseFromEntity(note), nil
}

func (s *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest, files []*dto.UploadedFile) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, apperror.Internal("failed to find note", err)
	}
	if note == nil {
		return nil, apperror.NotFound("Note not found")
	}
	if note.UserId != userId {
		return nil, apperror.Auth("Not authorized to update this note")
	}

	// Partial-update semantics: empty fields keep their previous values.
	if req.Title != "" {
		note.Title = req.Title
	}
	if req.Content != "" {
		note.Content = req.Content
	}
	tags, err := parseTags(req.Tags)
	if err != nil {
		return nil, err
	}
	if tags != nil {
		note.Tags = tags
	}

	// New files append to existing attachments, never replace them.
	newAttachments, err := s.storeFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	note.Attachments = append(note.Attachments, newAttachments...)

	now := time.Now()
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, apperror.Internal("failed to update note", err)
	}

	s.invalidateSharedCache(ctx, note)
	s.publishActivity(ctx, events.TypeNoteUpdated, map[string]interface{}{
		"note_id": note.Id,
		"user_id": userId,
	})

	return dto.NoteResponseFromEntity(note), nil
}

func (s *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Internal("failed to find note", err)
	}
	if note == nil {
		return apperror.NotFound("Note not found")
	}
	if note.UserId != userId {
		return apperror.Auth("Not authorized to delete this note")
	}

	// Best-effort cascade: a failed object deletion is logged and skipped,
	// it never aborts the note removal or the remaining attachments.
	for _, attachment := range note.Attachments {
		if err := s.attachmentService.Delete(ctx, attachment); err != nil {
			s.sysLogger.Warn("note", "failed to delete attachment object", map[string]interface{}{
				"note_id":       note.Id,
				"attachment_id": attachment.Id,
				"error":         err.Error(),
			})
		}
	}

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete note", err)
	}

	s.invalidateSharedCache(ctx, note)
	s.publishActivity(ctx, events.TypeNoteDeleted, map[string]interface{}{
		"note_id": note.Id,
		"user_id": userId,
	})

	return nil
}

func (s *noteService) Share(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShareNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("failed to find note", err)
	}
	if note == nil {
		return nil, apperror.NotFound("Note not found")
	}
	if note.UserId != userId {
		return nil, apperror.Auth("Not authorized to share this note")
	}

	// A share id is assigned once and never regenerated; repeated calls
	// return the same link.
	if note.ShareId == nil {
		shareId := uuid.New().String()
		note.ShareId = &shareId
	}
	note.IsPublic = true
	now := time.Now()
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, apperror.Internal("failed to share note", err)
	}

	s.invalidateSharedCache(ctx, note)
	s.publishActivity(ctx, events.TypeNoteShared, map[string]interface{}{
		"note_id":  note.Id,
		"user_id":  userId,
		"share_id": *note.ShareId,
	})

	return &dto.ShareNoteResponse{
		ShareLink: fmt.Sprintf("%s/api/notes/share/%s", s.baseURL, *note.ShareId),
		Note:      dto.NoteResponseFromEntity(note),
	}, nil
}

func (s *noteService) ShowShared(ctx context.Context, shareId string) (*dto.NoteResponse, error) {
	if s.sharedCache != nil {
		if cached, ok := s.sharedCache.Get(ctx, s.sharedCacheKey(shareId)); ok {
			var res dto.NoteResponse
			if err := json.Unmarshal(cached, &res); err == nil {
				return &res, nil
			}
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// A note unshared by flipping is_public off is indistinguishable from
	// one that never existed.
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByShareId{ShareId: shareId},
		specification.IsPublic{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to find shared note", err)
	}
	if note == nil {
		return nil, apperror.NotFound("Shared note not found or no longer public")
	}

	res := dto.NoteResponseFromEntity(note)

	if s.sharedCache != nil {
		if payload, err := json.Marshal(res); err == nil {
			if err := s.sharedCache.Set(ctx, s.sharedCacheKey(shareId), payload, sharedNoteCacheTTL); err != nil {
				s.sysLogger.Warn("note", "failed to cache shared note", map[string]interface{}{
					"share_id": shareId,
					"error":    err.Error(),
				})
			}
		}
	}

	return res, nil
}

func (s *noteService) DeleteAttachment(ctx context.Context, userId uuid.UUID, noteId, attachmentId uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return nil, apperror.Internal("failed to find note", err)
	}
	if note == nil {
		return nil, apperror.NotFound("Note not found")
	}
	if note.UserId != userId {
		return nil, apperror.Auth("Not authorized to update this note")
	}

	attachment := note.FindAttachment(attachmentId)
	if attachment == nil {
		return nil, apperror.NotFound("Attachment not found")
	}

	if err := s.attachmentService.Delete(ctx, *attachment); err != nil {
		s.sysLogger.Warn("note", "failed to delete attachment object", map[string]interface{}{
			"note_id":       note.Id,
			"attachment_id": attachment.Id,
			"error":         err.Error(),
		})
	}

	note.RemoveAttachment(attachmentId)
	now := time.Now()
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, apperror.Internal("failed to update note", err)
	}

	s.invalidateSharedCache(ctx, note)

	return dto.NoteResponseFromEntity(note), nil
}
