package service

import (
	"context"
	"fmt"
	"path/filepath"

	"notehub-be/internal/config"
	"notehub-be/internal/dto"
	"notehub-be/internal/entity"
	"notehub-be/internal/pkg/apperror"
	"notehub-be/pkg/storage"

	"github.com/google/uuid"
)

// IAttachmentService maps uploaded files to stored objects and back. It owns
// no records itself; attachments live inside their parent note.
type IAttachmentService interface {
	Store(ctx context.Context, file *dto.UploadedFile) (*entity.Attachment, error)
	Delete(ctx context.Context, attachment entity.Attachment) error
}

type attachmentService struct {
	objectStorage storage.ObjectStorage
	storageCfg    config.StorageConfig
}

func NewAttachmentService(objectStorage storage.ObjectStorage, storageCfg config.StorageConfig) IAttachmentService {
	return &attachmentService{
		objectStorage: objectStorage,
		storageCfg:    storageCfg,
	}
}

func (s *attachmentService) Store(ctx context.Context, file *dto.UploadedFile) (*entity.Attachment, error) {
	if file.Filename == "" {
		return nil, apperror.Validation("uploaded file has no name")
	}
	if s.storageCfg.MaxFileSize > 0 && int64(len(file.Data)) > s.storageCfg.MaxFileSize {
		return nil, apperror.Validation(fmt.Sprintf("file %s exceeds the maximum size of %d bytes", file.Filename, s.storageCfg.MaxFileSize))
	}

	id := uuid.New()
	key := storage.AttachmentKey(id.String() + filepath.Ext(file.Filename))

	url, err := s.objectStorage.Upload(ctx, key, file.Data, file.ContentType)
	if err != nil {
		return nil, apperror.Internal("failed to upload attachment", err)
	}

	return &entity.Attachment{
		Id:       id,
		Url:      url,
		Filename: file.Filename,
		Format:   file.ContentType,
	}, nil
}

// Delete removes the backing object. "Already gone" is success; other
// storage errors are returned for the caller to log, never to abort the
// enclosing note operation.
func (s *attachmentService) Delete(ctx context.Context, attachment entity.Attachment) error {
	key := storage.KeyFromURL(attachment.Url)
	if key == "" {
		return fmt.Errorf("cannot derive object key from url %q", attachment.Url)
	}
	return s.objectStorage.Delete(ctx, key)
}
