package apiclient

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Local state mirror. Keys: "auth:user" for the session's user, "note:<id>"
// for each note seen in a response.

func noteKey(id uuid.UUID) string {
	return "note:" + id.String()
}

func (c *Client) setSession(s Session) {
	c.token = s.Token
	c.state.Set(stateUserKey, s.User, cache.NoExpiration)
}

func (c *Client) mirrorNote(n Note) {
	c.state.Set(noteKey(n.Id), n, stateDefaultTTL)
}

// CurrentUser returns the locally mirrored user, if a session is active.
func (c *Client) CurrentUser() (*User, bool) {
	v, ok := c.state.Get(stateUserKey)
	if !ok {
		return nil, false
	}
	u := v.(User)
	return &u, true
}

// CachedNote returns the locally mirrored copy of a note without a network
// round trip. ok is false when the note was never fetched or has expired.
func (c *Client) CachedNote(id uuid.UUID) (*Note, bool) {
	v, ok := c.state.Get(noteKey(id))
	if !ok {
		return nil, false
	}
	n := v.(Note)
	return &n, true
}

// CachedNotes returns every locally mirrored note, most recently updated
// first, matching the server's list ordering.
func (c *Client) CachedNotes() []Note {
	items := c.state.Items()
	notes := make([]Note, 0, len(items))
	for k, item := range items {
		if !strings.HasPrefix(k, "note:") {
			continue
		}
		notes = append(notes, item.Object.(Note))
	}
	sort.Slice(notes, func(i, j int) bool {
		ti, tj := notes[i].CreatedAt, notes[j].CreatedAt
		if notes[i].UpdatedAt != nil {
			ti = *notes[i].UpdatedAt
		}
		if notes[j].UpdatedAt != nil {
			tj = *notes[j].UpdatedAt
		}
		return ti.After(tj)
	})
	return notes
}
