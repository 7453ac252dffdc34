package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const basePath = "attachments/"

// ObjectStorage is the collaborator attachments are persisted to. Upload
// returns the public URL of the stored object; Delete treats an already
// missing object as success.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// s3API is the slice of the S3 client we use, extracted for testability.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Client struct {
	bucket        string
	region        string
	publicBaseURL string
	api           s3API
}

func NewClient(ctx context.Context, bucket, region, publicBaseURL string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &Client{
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		api:           s3.NewFromConfig(cfg),
	}, nil
}

// NewClientWithAPI wires a preconstructed S3 API, used by tests.
func NewClientWithAPI(api s3API, bucket, region, publicBaseURL string) *Client {
	return &Client{
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		api:           api,
	}
}

func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("object key is empty")
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(key))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if _, err := c.api.PutObject(ctx, input); err != nil {
		return "", err
	}
	return c.ObjectURL(key), nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("object key is empty")
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	_, err := c.api.DeleteObject(ctx, input)
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// ObjectURL builds the public URL an uploaded object is reachable at.
func (c *Client) ObjectURL(key string) string {
	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

// AttachmentKey namespaces an object name under the attachments prefix.
func AttachmentKey(name string) string {
	return basePath + name
}

// KeyFromURL recovers the object key from a stored attachment URL. The key is
// the URL path; an unparseable URL yields an empty key.
func KeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
