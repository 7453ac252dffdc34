package apiclient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Wire types mirroring the server's response DTOs.

type User struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Attachment struct {
	Id       uuid.UUID `json:"id"`
	Url      string    `json:"url"`
	Filename string    `json:"filename"`
	Format   string    `json:"format"`
}

type Note struct {
	Id          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Tags        []string     `json:"tags"`
	Attachments []Attachment `json:"attachments"`
	UserId      uuid.UUID    `json:"user"`
	IsPublic    bool         `json:"isPublic"`
	ShareId     *string      `json:"shareId,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UploadFile is a file to attach to a note create or update.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NotePatch carries the mutable note fields for create/update calls.
// On update, empty fields keep their server-side values.
type NotePatch struct {
	Title   string
	Content string
	Tags    []string
}

type envelope[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Count     *int   `json:"count,omitempty"`
	ShareLink string `json:"shareLink,omitempty"`
	Data      T      `json:"data"`
	Error     string `json:"error,omitempty"`
	Code      int    `json:"code,omitempty"`
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}
