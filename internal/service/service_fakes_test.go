package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"notehub-be/internal/dto"
	"notehub-be/internal/entity"
	"notehub-be/internal/repository/contract"
	"notehub-be/internal/repository/specification"
	"notehub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories that interpret the same specifications the GORM
// implementations translate to SQL, so services can be tested without a DB.

type fakeUserRepository struct {
	users []*entity.User

	// missEmailLookup makes FindOne skip email matches, simulating a
	// concurrent insert that lands between the existence check and Create.
	missEmailLookup bool
}

func (r *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if _, ok := spec.(specification.ByEmail); ok && r.missEmailLookup {
			return nil, nil
		}
	}
	for _, u := range r.users {
		if userMatches(u, specs) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, u := range r.users {
		if userMatches(u, specs) {
			n++
		}
	}
	return n, nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		}
	}
	return true
}

type fakeNoteRepository struct {
	notes []*entity.Note
}

func (r *fakeNoteRepository) Create(_ context.Context, note *entity.Note) error {
	copied := *note
	r.notes = append(r.notes, &copied)
	return nil
}

func (r *fakeNoteRepository) Update(_ context.Context, note *entity.Note) error {
	for i, n := range r.notes {
		if n.Id == note.Id {
			copied := *note
			r.notes[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("note %s not found", note.Id)
}

func (r *fakeNoteRepository) Delete(_ context.Context, id uuid.UUID) error {
	for i, n := range r.notes {
		if n.Id == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("note %s not found", id)
}

func (r *fakeNoteRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Note, error) {
	for _, n := range r.notes {
		if noteMatches(n, specs) {
			copied := *n
			copied.Tags = append([]string(nil), n.Tags...)
			copied.Attachments = append([]entity.Attachment(nil), n.Attachments...)
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var result []*entity.Note
	for _, n := range r.notes {
		if noteMatches(n, specs) {
			copied := *n
			result = append(result, &copied)
		}
	}
	for _, spec := range specs {
		if o, ok := spec.(specification.OrderBy); ok && o.Field == "updated_at" {
			sort.SliceStable(result, func(i, j int) bool {
				ti, tj := result[i].CreatedAt, result[j].CreatedAt
				if result[i].UpdatedAt != nil {
					ti = *result[i].UpdatedAt
				}
				if result[j].UpdatedAt != nil {
					tj = *result[j].UpdatedAt
				}
				if o.Desc {
					return ti.After(tj)
				}
				return ti.Before(tj)
			})
		}
	}
	return result, nil
}

func (r *fakeNoteRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, note := range r.notes {
		if noteMatches(note, specs) {
			n++
		}
	}
	return n, nil
}

func noteMatches(n *entity.Note, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if n.Id != s.ID {
				return false
			}
		case specification.OwnedByUser:
			if n.UserId != s.UserID {
				return false
			}
		case specification.SearchQuery:
			q := strings.ToLower(s.Query)
			if !strings.Contains(strings.ToLower(n.Title), q) &&
				!strings.Contains(strings.ToLower(n.Content), q) {
				return false
			}
		case specification.HasTag:
			if !n.HasTag(s.Tag) {
				return false
			}
		case specification.ByShareId:
			if n.ShareId == nil || *n.ShareId != s.ShareId {
				return false
			}
		case specification.IsPublic:
			if !n.IsPublic {
				return false
			}
		}
	}
	return true
}

type fakeUnitOfWork struct {
	userRepo *fakeUserRepository
	noteRepo *fakeNoteRepository

	begins    int
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Begin(context.Context) error { u.begins++; return nil }
func (u *fakeUnitOfWork) Commit() error               { u.commits++; return nil }
func (u *fakeUnitOfWork) Rollback() error             { u.rollbacks++; return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return u.userRepo }
func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository { return u.noteRepo }

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{
		uow: &fakeUnitOfWork{
			userRepo: &fakeUserRepository{},
			noteRepo: &fakeNoteRepository{},
		},
	}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeAttachmentService records stores and deletes; deletes can be forced to
// fail per attachment id to exercise best-effort cascades.
type fakeAttachmentService struct {
	stored     []*dto.UploadedFile
	deleted    []uuid.UUID
	failDelete map[uuid.UUID]bool
}

func (f *fakeAttachmentService) Store(_ context.Context, file *dto.UploadedFile) (*entity.Attachment, error) {
	f.stored = append(f.stored, file)
	id := uuid.New()
	return &entity.Attachment{
		Id:       id,
		Url:      "https://cdn.test/attachments/" + id.String(),
		Filename: file.Filename,
		Format:   file.ContentType,
	}, nil
}

func (f *fakeAttachmentService) Delete(_ context.Context, attachment entity.Attachment) error {
	f.deleted = append(f.deleted, attachment.Id)
	if f.failDelete[attachment.Id] {
		return fmt.Errorf("storage unavailable")
	}
	return nil
}

// fakeSharedNoteCache is a map-backed SharedNoteCache; TTLs are recorded
// but never expire.
type fakeSharedNoteCache struct {
	entries  map[string][]byte
	lastTTL  time.Duration
	setCalls int
	delCalls int
}

func newFakeSharedNoteCache() *fakeSharedNoteCache {
	return &fakeSharedNoteCache{entries: map[string][]byte{}}
}

func (c *fakeSharedNoteCache) Get(_ context.Context, key string) ([]byte, bool) {
	payload, ok := c.entries[key]
	return payload, ok
}

func (c *fakeSharedNoteCache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	c.entries[key] = payload
	c.lastTTL = ttl
	c.setCalls++
	return nil
}

func (c *fakeSharedNoteCache) Del(_ context.Context, key string) error {
	delete(c.entries, key)
	c.delCalls++
	return nil
}

type fakePublisher struct {
	published [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	p.published = append(p.published, payload)
	return nil
}

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *recordingLogger) Debug(string, string, map[string]interface{}) {}

func (l *recordingLogger) Info(_ string, message string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, message)
}

func (l *recordingLogger) Warn(_ string, message string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, message)
}

func (l *recordingLogger) Error(string, string, map[string]interface{}) {}
func (l *recordingLogger) Sync() error                                  { return nil }

func (l *recordingLogger) infoMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.infos...)
}

func (l *recordingLogger) warnMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

// seedNote inserts a note directly into the fake repository.
func seedNote(repo *fakeNoteRepository, owner uuid.UUID, title, content string, tags []string, attachments []entity.Attachment) *entity.Note {
	note := &entity.Note{
		Id:          uuid.New(),
		Title:       title,
		Content:     content,
		Tags:        tags,
		Attachments: attachments,
		UserId:      owner,
		CreatedAt:   time.Now(),
	}
	repo.notes = append(repo.notes, note)
	return note
}
