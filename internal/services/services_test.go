package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Zayan93/yatube/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory database migrated to the full schema.
// Each test gets its own database, named after the test so shared-cache
// connections from the pool land on the same store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// newPostAt builds a post for the author with an explicit publish timestamp
func newPostAt(authorID uint, pubDate time.Time) *models.Post {
	return &models.Post{
		Text:     "post at " + pubDate.Format(time.RFC3339),
		AuthorID: authorID,
		PubDate:  pubDate,
	}
}

// createPosts inserts n posts for the author with strictly increasing publish
// timestamps, so post i+1 is newer than post i.
func createPosts(t *testing.T, db *gorm.DB, authorID uint, n int, base time.Time) []models.Post {
	t.Helper()
	posts := make([]models.Post, n)
	for i := 0; i < n; i++ {
		posts[i] = models.Post{
			Text:     fmt.Sprintf("post %d", i+1),
			AuthorID: authorID,
			PubDate:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&posts[i]).Error; err != nil {
			t.Fatalf("create post %d: %v", i+1, err)
		}
	}
	return posts
}

func postIDs(page *Page) []uint {
	ids := make([]uint, len(page.Posts))
	for i, p := range page.Posts {
		ids[i] = p.ID
	}
	return ids
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
