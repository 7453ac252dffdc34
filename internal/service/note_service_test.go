package service

import (
	"context"
	"testing"
	"time"

	"notehub-be/internal/dto"
	"notehub-be/internal/entity"
	"notehub-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteServiceFixture struct {
	svc         INoteService
	factory     *fakeRepositoryFactory
	attachments *fakeAttachmentService
	publisher   *fakePublisher
	logger      *recordingLogger
	cache       *fakeSharedNoteCache
}

func newNoteServiceFixture() *noteServiceFixture {
	factory := newFakeFactory()
	attachments := &fakeAttachmentService{failDelete: map[uuid.UUID]bool{}}
	publisher := &fakePublisher{}
	log := &recordingLogger{}
	svc := NewNoteService(factory, attachments, publisher, log, nil, "http://localhost:3000", 5)
	return &noteServiceFixture{
		svc:         svc,
		factory:     factory,
		attachments: attachments,
		publisher:   publisher,
		logger:      log,
	}
}

func newCachedNoteServiceFixture() *noteServiceFixture {
	f := newNoteServiceFixture()
	f.cache = newFakeSharedNoteCache()
	f.svc = NewNoteService(f.factory, f.attachments, f.publisher, f.logger, f.cache, "http://localhost:3000", 5)
	return f
}

func TestCreateNote(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()

	res, err := f.svc.Create(ctx, owner, &dto.CreateNoteRequest{
		Title:   "Shopping",
		Content: "Milk and eggs",
		Tags:    `["personal","todo"]`,
	}, []*dto.UploadedFile{
		{Filename: "list.txt", ContentType: "text/plain", Data: []byte("milk")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Shopping", res.Title)
	assert.Equal(t, []string{"personal", "todo"}, res.Tags)
	assert.Equal(t, owner, res.UserId)
	assert.False(t, res.IsPublic)
	assert.Nil(t, res.ShareId)
	require.Len(t, res.Attachments, 1)
	assert.Equal(t, "list.txt", res.Attachments[0].Filename)
	assert.Len(t, f.attachments.stored, 1)
}

func TestCreateNoteTagValidation(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()

	t.Run("missing tags default to empty", func(t *testing.T) {
		res, err := f.svc.Create(ctx, uuid.New(), &dto.CreateNoteRequest{Title: "A", Content: "B"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{}, res.Tags)
	})

	t.Run("malformed tags rejected", func(t *testing.T) {
		_, err := f.svc.Create(ctx, uuid.New(), &dto.CreateNoteRequest{
			Title: "A", Content: "B", Tags: "not-json",
		}, nil)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
	})
}

func TestCreateNoteFileLimit(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()

	files := make([]*dto.UploadedFile, 6)
	for i := range files {
		files[i] = &dto.UploadedFile{Filename: "f.txt", ContentType: "text/plain", Data: []byte("x")}
	}

	_, err := f.svc.Create(ctx, uuid.New(), &dto.CreateNoteRequest{Title: "A", Content: "B"}, files)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Empty(t, f.attachments.stored)
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()
	other := uuid.New()
	repo := f.factory.uow.noteRepo

	older := seedNote(repo, owner, "Go notes", "interfaces and goroutines", []string{"dev"}, nil)
	newer := seedNote(repo, owner, "Grocery run", "milk, eggs", []string{"personal"}, nil)
	seedNote(repo, other, "Go notes too", "not yours", []string{"dev"}, nil)

	earlier := time.Now().Add(-time.Hour)
	older.UpdatedAt = &earlier
	later := time.Now()
	newer.UpdatedAt = &later

	t.Run("only caller's notes, newest first", func(t *testing.T) {
		res, err := f.svc.List(ctx, owner, dto.ListNotesFilter{})
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "Grocery run", res[0].Title)
		assert.Equal(t, "Go notes", res[1].Title)
	})

	t.Run("search matches title or content", func(t *testing.T) {
		res, err := f.svc.List(ctx, owner, dto.ListNotesFilter{Search: "goroutines"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Go notes", res[0].Title)
	})

	t.Run("tag filter is exact membership", func(t *testing.T) {
		res, err := f.svc.List(ctx, owner, dto.ListNotesFilter{Tag: "personal"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Grocery run", res[0].Title)
	})

	t.Run("no match yields empty list", func(t *testing.T) {
		res, err := f.svc.List(ctx, owner, dto.ListNotesFilter{Tag: "nope"})
		require.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestShowNote(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()
	stranger := uuid.New()
	repo := f.factory.uow.noteRepo

	private := seedNote(repo, owner, "Private", "secret", nil, nil)
	public := seedNote(repo, owner, "Public", "open", nil, nil)
	public.IsPublic = true

	t.Run("owner sees private note", func(t *testing.T) {
		res, err := f.svc.Show(ctx, owner, private.Id)
		require.NoError(t, err)
		assert.Equal(t, "Private", res.Title)
	})

	t.Run("stranger denied on private note", func(t *testing.T) {
		_, err := f.svc.Show(ctx, stranger, private.Id)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindAuth, appErr.Kind)
	})

	t.Run("stranger allowed on public note", func(t *testing.T) {
		res, err := f.svc.Show(ctx, stranger, public.Id)
		require.NoError(t, err)
		assert.Equal(t, "Public", res.Title)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.Show(ctx, owner, uuid.New())
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
	})
}

func TestUpdateNotePartialSemantics(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()
	repo := f.factory.uow.noteRepo

	note := seedNote(repo, owner, "Original title", "Original content", []string{"keep"}, nil)

	res, err := f.svc.Update(ctx, owner, &dto.UpdateNoteRequest{
		Id:      note.Id,
		Content: "New content",
	}, nil)
	require.NoError(t, err)

	// Empty title and tags keep their previous values.
	assert.Equal(t, "Original title", res.Title)
	assert.Equal(t, "New content", res.Content)
	assert.Equal(t, []string{"keep"}, res.Tags)
	require.NotNil(t, res.UpdatedAt)
}

func TestUpdateNoteAppendsFiles(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()
	repo := f.factory.uow.noteRepo

	existing := entity.Attachment{Id: uuid.New(), Url: "https://cdn.test/attachments/old", Filename: "old.png", Format: "image/png"}
	note := seedNote(repo, owner, "With files", "body", nil, []entity.Attachment{existing})

	res, err := f.svc.Update(ctx, owner, &dto.UpdateNoteRequest{Id: note.Id}, []*dto.UploadedFile{
		{Filename: "new.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
	})
	require.NoError(t, err)

	// New files append; they never replace existing attachments.
	require.Len(t, res.Attachments, 2)
	assert.Equal(t, "old.png", res.Attachments[0].Filename)
	assert.Equal(t, "new.pdf", res.Attachments[1].Filename)
}

func TestUpdateNoteAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()
	note := seedNote(f.factory.uow.noteRepo, owner, "Mine", "body", nil, nil)

	_, err := f.svc.Update(ctx, uuid.New(), &dto.UpdateNoteRequest{Id: note.Id, Title: "Hijack"}, nil)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindAuth, appErr.Kind)
}

func TestDeleteNoteCascade(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()
	repo := f.factory.uow.noteRepo

	atts := []entity.Attachment{
		{Id: uuid.New(), Url: "https://cdn.test/attachments/a", Filename: "a.png", Format: "image/png"},
		{Id: uuid.New(), Url: "https://cdn.test/attachments/b", Filename: "b.png", Format: "image/png"},
		{Id: uuid.New(), Url: "https://cdn.test/attachments/c", Filename: "c.png", Format: "image/png"},
	}
	note := seedNote(repo, owner, "Doomed", "body", nil, atts)

	// A mid-cascade storage failure must not stop the remaining deletions
	// or the note removal itself.
	f.attachments.failDelete[atts[1].Id] = true

	err := f.svc.Delete(ctx, owner, note.Id)
	require.NoError(t, err)

	assert.Len(t, f.attachments.deleted, 3)
	assert.Len(t, f.logger.warnMessages(), 1)
	assert.Empty(t, repo.notes)
}

func TestShareNoteIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()
	note := seedNote(f.factory.uow.noteRepo, owner, "To share", "body", nil, nil)

	first, err := f.svc.Share(ctx, owner, note.Id)
	require.NoError(t, err)
	require.NotNil(t, first.Note.ShareId)
	assert.True(t, first.Note.IsPublic)
	assert.Equal(t, "http://localhost:3000/api/notes/share/"+*first.Note.ShareId, first.ShareLink)

	// Sharing again never regenerates the id.
	second, err := f.svc.Share(ctx, owner, note.Id)
	require.NoError(t, err)
	assert.Equal(t, *first.Note.ShareId, *second.Note.ShareId)
	assert.Equal(t, first.ShareLink, second.ShareLink)
}

func TestShareNoteOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	note := seedNote(f.factory.uow.noteRepo, uuid.New(), "Not yours", "body", nil, nil)

	_, err := f.svc.Share(ctx, uuid.New(), note.Id)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindAuth, appErr.Kind)
}

func TestShowShared(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()
	note := seedNote(f.factory.uow.noteRepo, owner, "Shared", "body", nil, nil)

	shared, err := f.svc.Share(ctx, owner, note.Id)
	require.NoError(t, err)

	t.Run("public fetch without auth context", func(t *testing.T) {
		res, err := f.svc.ShowShared(ctx, *shared.Note.ShareId)
		require.NoError(t, err)
		assert.Equal(t, "Shared", res.Title)
	})

	t.Run("unknown share id", func(t *testing.T) {
		_, err := f.svc.ShowShared(ctx, uuid.New().String())
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
	})

	t.Run("unshared note is treated as not found", func(t *testing.T) {
		// Flipping is_public off hides the note even though share_id persists.
		for _, n := range f.factory.uow.noteRepo.notes {
			if n.Id == note.Id {
				n.IsPublic = false
			}
		}
		_, err := f.svc.ShowShared(ctx, *shared.Note.ShareId)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
	})
}

func TestShowSharedCacheReadThrough(t *testing.T) {
	ctx := context.Background()
	f := newCachedNoteServiceFixture()
	owner := uuid.New()
	note := seedNote(f.factory.uow.noteRepo, owner, "Cached", "body", nil, nil)

	shared, err := f.svc.Share(ctx, owner, note.Id)
	require.NoError(t, err)
	shareId := *shared.Note.ShareId

	// First fetch misses and fills the cache with the note's TTL.
	res, err := f.svc.ShowShared(ctx, shareId)
	require.NoError(t, err)
	assert.Equal(t, "Cached", res.Title)
	assert.Equal(t, 1, f.cache.setCalls)
	assert.Equal(t, sharedNoteCacheTTL, f.cache.lastTTL)

	// Second fetch is served from the cache, not the repository.
	f.factory.uow.noteRepo.notes = nil
	res, err = f.svc.ShowShared(ctx, shareId)
	require.NoError(t, err)
	assert.Equal(t, "Cached", res.Title)
	assert.Equal(t, 1, f.cache.setCalls)
}

func TestSharedCacheInvalidation(t *testing.T) {
	ctx := context.Background()

	// prime shares a seeded note and performs one cached fetch.
	prime := func(t *testing.T) (*noteServiceFixture, uuid.UUID, *entity.Note, string) {
		f := newCachedNoteServiceFixture()
		owner := uuid.New()
		note := seedNote(f.factory.uow.noteRepo, owner, "Before", "body", nil, nil)
		shared, err := f.svc.Share(ctx, owner, note.Id)
		require.NoError(t, err)
		shareId := *shared.Note.ShareId
		_, err = f.svc.ShowShared(ctx, shareId)
		require.NoError(t, err)
		require.NotEmpty(t, f.cache.entries)
		return f, owner, note, shareId
	}

	t.Run("update is never served stale", func(t *testing.T) {
		f, owner, note, shareId := prime(t)

		_, err := f.svc.Update(ctx, owner, &dto.UpdateNoteRequest{Id: note.Id, Title: "After"}, nil)
		require.NoError(t, err)

		res, err := f.svc.ShowShared(ctx, shareId)
		require.NoError(t, err)
		assert.Equal(t, "After", res.Title)
	})

	t.Run("delete drops the cached copy", func(t *testing.T) {
		f, owner, note, shareId := prime(t)

		require.NoError(t, f.svc.Delete(ctx, owner, note.Id))

		_, err := f.svc.ShowShared(ctx, shareId)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
		assert.Empty(t, f.cache.entries)
	})

	t.Run("re-share invalidates", func(t *testing.T) {
		f, owner, note, _ := prime(t)
		before := f.cache.delCalls

		_, err := f.svc.Share(ctx, owner, note.Id)
		require.NoError(t, err)
		assert.Equal(t, before+1, f.cache.delCalls)
	})
}

func TestDeleteAttachment(t *testing.T) {
	ctx := context.Background()
	f := newNoteServiceFixture()
	owner := uuid.New()

	att := entity.Attachment{Id: uuid.New(), Url: "https://cdn.test/attachments/x", Filename: "x.png", Format: "image/png"}
	note := seedNote(f.factory.uow.noteRepo, owner, "Has file", "body", nil, []entity.Attachment{att})

	t.Run("unknown attachment", func(t *testing.T) {
		_, err := f.svc.DeleteAttachment(ctx, owner, note.Id, uuid.New())
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
	})

	t.Run("removes record and backing object", func(t *testing.T) {
		res, err := f.svc.DeleteAttachment(ctx, owner, note.Id, att.Id)
		require.NoError(t, err)
		assert.Empty(t, res.Attachments)
		assert.Contains(t, f.attachments.deleted, att.Id)
	})
}
