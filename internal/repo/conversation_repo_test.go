package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
)

func newConvRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("conv_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateConversation_Error_NoTable(t *testing.T) {
	db := newConvRepoDB(t /* no migrations */)
	c, err := CreateConversation(context.Background(), db, "u1")
	if err == nil || c != nil {
		t.Fatalf("expected error creating without table, got conv=%v err=%v", c, err)
	}
}

func TestCreateAndGetConversation(t *testing.T) {
	db := newConvRepoDB(t, &domain.Conversation{})
	ctx := context.Background()

	c, err := CreateConversation(ctx, db, "u1")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if c.ID == "" || c.UserID != "u1" || c.EndedAt != nil {
		t.Fatalf("unexpected fields: %+v", c)
	}

	got, err := GetConversation(ctx, db, c.ID, "u1")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("got %q, want %q", got.ID, c.ID)
	}

	// Ownership is enforced.
	if _, err := GetConversation(ctx, db, c.ID, "intruder"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestListConversationsPage_AndCount(t *testing.T) {
	db := newConvRepoDB(t, &domain.Conversation{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := CreateConversation(ctx, db, "u1"); err != nil {
			t.Fatalf("CreateConversation: %v", err)
		}
	}
	if _, err := CreateConversation(ctx, db, "u2"); err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	total, err := CountConversations(ctx, db, "u1")
	if err != nil || total != 5 {
		t.Fatalf("CountConversations = %d, %v; want 5", total, err)
	}

	page, err := ListConversationsPage(ctx, db, "u1", 0, 2)
	if err != nil {
		t.Fatalf("ListConversationsPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page len = %d, want 2", len(page))
	}
}

func TestEndConversation(t *testing.T) {
	db := newConvRepoDB(t, &domain.Conversation{})
	ctx := context.Background()

	c, err := CreateConversation(ctx, db, "u1")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	at := time.Now()
	if err := EndConversation(ctx, db, c.ID, "u1", at); err != nil {
		t.Fatalf("EndConversation: %v", err)
	}
	got, err := GetConversation(ctx, db, c.ID, "u1")
	if err != nil || got.EndedAt == nil {
		t.Fatalf("conversation not ended: %+v err=%v", got, err)
	}
	first := *got.EndedAt

	// Idempotent: second call keeps the original timestamp.
	if err := EndConversation(ctx, db, c.ID, "u1", at.Add(time.Hour)); err != nil {
		t.Fatalf("second EndConversation: %v", err)
	}
	again, _ := GetConversation(ctx, db, c.ID, "u1")
	if !again.EndedAt.Equal(first) {
		t.Fatalf("EndedAt overwritten: %v -> %v", first, again.EndedAt)
	}

	if err := EndConversation(ctx, db, "missing", "u1", at); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}
