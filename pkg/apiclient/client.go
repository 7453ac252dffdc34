package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Client is a typed HTTP client for the notes API that keeps a local mirror
// of auth and note state. The mirror is a convenience for UIs: it is updated
// from every successful response but is never authoritative; re-fetch with
// ListNotes/GetNote when freshness matters.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	state   *cache.Cache
}

const (
	stateDefaultTTL = 5 * time.Minute
	stateUserKey    = "auth:user"
)

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		state:   cache.New(stateDefaultTTL, 10*time.Minute),
	}
}

// Token returns the bearer token from the last Login/Register, or "".
func (c *Client) Token() string {
	return c.token
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, patch NotePatch, files []UploadFile, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if patch.Title != "" {
		_ = w.WriteField("title", patch.Title)
	}
	if patch.Content != "" {
		_ = w.WriteField("content", patch.Content)
	}
	if patch.Tags != nil {
		tagsJSON, err := json.Marshal(patch.Tags)
		if err != nil {
			return err
		}
		_ = w.WriteField("tags", string(tagsJSON))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.Filename))
		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := part.Write(f.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errEnv envelope[json.RawMessage]
		_ = json.Unmarshal(respBody, &errEnv)
		msg := errEnv.Error
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var env envelope[Session]
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &env)
	if err != nil {
		return nil, err
	}
	c.setSession(env.Data)
	return &env.Data, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var env envelope[Session]
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &env)
	if err != nil {
		return nil, err
	}
	c.setSession(env.Data)
	return &env.Data, nil
}

// Logout clears the local session and note mirror. The server call is
// best-effort: stateless tokens cannot be revoked server-side anyway.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodGet, "/api/auth/logout", nil, nil)
	c.token = ""
	c.state.Flush()
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var env envelope[User]
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &env); err != nil {
		return nil, err
	}
	c.state.Set(stateUserKey, env.Data, cache.NoExpiration)
	return &env.Data, nil
}

// --- Notes ---

func (c *Client) CreateNote(ctx context.Context, patch NotePatch, files []UploadFile) (*Note, error) {
	var env envelope[Note]
	if err := c.doMultipart(ctx, http.MethodPost, "/api/notes", patch, files, &env); err != nil {
		return nil, err
	}
	c.mirrorNote(env.Data)
	return &env.Data, nil
}

func (c *Client) ListNotes(ctx context.Context, search, tag string) ([]Note, error) {
	path := "/api/notes"
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if tag != "" {
		q.Set("tag", tag)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env envelope[[]Note]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	for _, n := range env.Data {
		c.mirrorNote(n)
	}
	return env.Data, nil
}

func (c *Client) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	var env envelope[Note]
	if err := c.doJSON(ctx, http.MethodGet, "/api/notes/"+id.String(), nil, &env); err != nil {
		return nil, err
	}
	c.mirrorNote(env.Data)
	return &env.Data, nil
}

func (c *Client) UpdateNote(ctx context.Context, id uuid.UUID, patch NotePatch, files []UploadFile) (*Note, error) {
	var env envelope[Note]
	if err := c.doMultipart(ctx, http.MethodPut, "/api/notes/"+id.String(), patch, files, &env); err != nil {
		return nil, err
	}
	c.mirrorNote(env.Data)
	return &env.Data, nil
}

func (c *Client) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/notes/"+id.String(), nil, nil); err != nil {
		return err
	}
	c.state.Delete(noteKey(id))
	return nil
}

// ShareNote returns the public share link for the note.
func (c *Client) ShareNote(ctx context.Context, id uuid.UUID) (string, *Note, error) {
	var env envelope[Note]
	if err := c.doJSON(ctx, http.MethodPost, "/api/notes/"+id.String()+"/share", nil, &env); err != nil {
		return "", nil, err
	}
	c.mirrorNote(env.Data)
	return env.ShareLink, &env.Data, nil
}

// GetSharedNote fetches a publicly shared note. No auth required.
func (c *Client) GetSharedNote(ctx context.Context, shareId string) (*Note, error) {
	var env envelope[Note]
	if err := c.doJSON(ctx, http.MethodGet, "/api/notes/share/"+shareId, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) DeleteAttachment(ctx context.Context, noteId, attachmentId uuid.UUID) (*Note, error) {
	var env envelope[Note]
	path := "/api/notes/" + noteId.String() + "/attachments/" + attachmentId.String()
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &env); err != nil {
		return nil, err
	}
	c.mirrorNote(env.Data)
	return &env.Data, nil
}
