package main

import (
	"log"

	"notehub-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDemoNotes populates the demo account with a handful of starter notes.
func SeedDemoNotes(db *gorm.DB, user model.User) {
	notes := []model.Note{
		{
			Title:       "Welcome to NoteHub",
			Content:     "This is your first note. You can edit it, tag it, attach files to it, or share it with a public link.",
			Tags:        datatypes.JSON([]byte(`["getting-started"]`)),
			Attachments: datatypes.JSON([]byte(`[]`)),
			UserId:      user.Id,
		},
		{
			Title:       "Keyboard-free capture",
			Content:     "Attach up to five files per note. Images, PDFs and plain text all work.",
			Tags:        datatypes.JSON([]byte(`["getting-started","attachments"]`)),
			Attachments: datatypes.JSON([]byte(`[]`)),
			UserId:      user.Id,
		},
		{
			Title:       "Grocery list",
			Content:     "Milk, eggs, coffee, bread.",
			Tags:        datatypes.JSON([]byte(`["personal"]`)),
			Attachments: datatypes.JSON([]byte(`[]`)),
			UserId:      user.Id,
		},
	}

	for _, n := range notes {
		var existing model.Note
		if err := db.Where("user_id = ? AND title = ?", n.UserId, n.Title).First(&existing).Error; err == nil {
			log.Printf("Note '%s' already exists, skipping...", n.Title)
			continue
		}

		if err := db.Create(&n).Error; err != nil {
			log.Printf("Error creating note '%s': %v", n.Title, err)
		} else {
			log.Printf("Created note: %s", n.Title)
		}
	}
}
