package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"notehub-be/pkg/apiclient"

	"github.com/fatih/color"
)

// Manual end-to-end smoke test against a running server.
// Usage: go run scripts/test_api.go [baseURL]

func main() {
	baseURL := "http://localhost:3000"
	if len(os.Args) > 1 {
		baseURL = os.Args[1]
	}

	ctx := context.Background()
	client := apiclient.New(baseURL)

	color.Cyan("🚀 Starting Notes API Smoke Test (%s)\n", baseURL)

	// 1. Register a throwaway user
	email := fmt.Sprintf("smoke+%d@example.com", time.Now().UnixNano())
	color.Yellow("\n1. Register %s", email)
	session, err := client.Register(ctx, "Smoke Tester", email, "smoketest123")
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Registered user %s", session.User.Id)

	// 2. Create a note with a text attachment
	color.Yellow("\n2. Create Note")
	note, err := client.CreateNote(ctx, apiclient.NotePatch{
		Title:   "Smoke test note",
		Content: "Created by scripts/test_api.go",
		Tags:    []string{"smoke", "test"},
	}, []apiclient.UploadFile{
		{Filename: "hello.txt", ContentType: "text/plain", Data: []byte("hello world")},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Created note %s with %d attachment(s)", note.Id, len(note.Attachments))

	// 3. List with tag filter
	color.Yellow("\n3. List Notes (tag=smoke)")
	notes, err := client.ListNotes(ctx, "", "smoke")
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Listed %d note(s)", len(notes))

	// 4. Partial update: content only, title must survive
	color.Yellow("\n4. Update Note (content only)")
	updated, err := client.UpdateNote(ctx, note.Id, apiclient.NotePatch{
		Content: "Updated by scripts/test_api.go",
	}, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if updated.Title != note.Title {
		color.Red("Title changed on partial update: %q -> %q", note.Title, updated.Title)
		os.Exit(1)
	}
	color.Green("Updated, title preserved: %q", updated.Title)

	// 5. Share, then fetch without auth
	color.Yellow("\n5. Share Note")
	link, shared, err := client.ShareNote(ctx, note.Id)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Share link: %s", link)

	color.Yellow("\n6. Fetch Shared Note (anonymous)")
	anon := apiclient.New(baseURL)
	public, err := anon.GetSharedNote(ctx, *shared.ShareId)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Fetched shared note: %q", public.Title)

	// 7. Delete attachment, then the note
	if len(updated.Attachments) > 0 {
		color.Yellow("\n7. Delete Attachment")
		after, err := client.DeleteAttachment(ctx, note.Id, updated.Attachments[0].Id)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Attachments remaining: %d", len(after.Attachments))
	}

	color.Yellow("\n8. Delete Note")
	if err := client.DeleteNote(ctx, note.Id); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Deleted")

	color.Yellow("\n9. Logout")
	if err := client.Logout(ctx); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Logged out")

	color.Cyan("\n✅ Smoke test passed")
}
