package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	putCalls    []*s3.PutObjectInput
	deleteCalls []*s3.DeleteObjectInput
	putErr      error
	deleteErr   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putCalls = append(f.putCalls, params)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteCalls = append(f.deleteCalls, params)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	api := &fakeS3{}
	client := NewClientWithAPI(api, "notes-bucket", "us-east-1", "")

	url, err := client.Upload(context.Background(), "attachments/abc.png", []byte{0x89, 0x50}, "image/png")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if want := "https://notes-bucket.s3.us-east-1.amazonaws.com/attachments/abc.png"; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if len(api.putCalls) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(api.putCalls))
	}
	if got := *api.putCalls[0].ContentType; got != "image/png" {
		t.Errorf("ContentType = %q", got)
	}
}

func TestUploadContentTypeFallback(t *testing.T) {
	api := &fakeS3{}
	client := NewClientWithAPI(api, "b", "r", "")

	// No explicit type: extension first, then sniffing.
	if _, err := client.Upload(context.Background(), "attachments/doc.pdf", []byte("%PDF-"), ""); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if got := *api.putCalls[0].ContentType; got != "application/pdf" {
		t.Errorf("ContentType = %q, want application/pdf", got)
	}
}

func TestUploadPublicBaseURL(t *testing.T) {
	client := NewClientWithAPI(&fakeS3{}, "b", "r", "https://cdn.example.com/")

	url, err := client.Upload(context.Background(), "attachments/a.txt", []byte("x"), "text/plain")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if want := "https://cdn.example.com/attachments/a.txt"; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestDeleteIdempotentOnMissingObject(t *testing.T) {
	api := &fakeS3{deleteErr: &types.NoSuchKey{}}
	client := NewClientWithAPI(api, "b", "r", "")

	if err := client.Delete(context.Background(), "attachments/gone.png"); err != nil {
		t.Errorf("Delete on missing object should succeed, got %v", err)
	}
}

func TestDeleteSurfacesOtherErrors(t *testing.T) {
	api := &fakeS3{deleteErr: errors.New("access denied")}
	client := NewClientWithAPI(api, "b", "r", "")

	if err := client.Delete(context.Background(), "attachments/x.png"); err == nil {
		t.Error("Delete should surface non-missing storage errors")
	}
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://b.s3.r.amazonaws.com/attachments/abc.png", "attachments/abc.png"},
		{"https://cdn.example.com/attachments/x.pdf", "attachments/x.pdf"},
		{"://not-a-url", ""},
	}

	for _, tt := range tests {
		if got := KeyFromURL(tt.url); got != tt.want {
			t.Errorf("KeyFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestAttachmentKey(t *testing.T) {
	if got := AttachmentKey("abc.png"); got != "attachments/abc.png" {
		t.Errorf("AttachmentKey = %q", got)
	}
}
