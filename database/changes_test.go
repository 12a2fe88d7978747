package database_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/perspective/database"
	"github.com/perspective/pkg/changefeed"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []changefeed.Change
}

func (p *recordingPublisher) Publish(c changefeed.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.changes = append(p.changes, c)
}

func (p *recordingPublisher) all() []changefeed.Change {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]changefeed.Change(nil), p.changes...)
}

func newWatchedConnection(t *testing.T) (*database.Connection, *recordingPublisher) {
	t.Helper()

	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(database.GetSchemaModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	publisher := &recordingPublisher{}
	if err := conn.Watch(publisher); err != nil {
		t.Fatalf("watch: %v", err)
	}

	return conn, publisher
}

func TestWatchPublishesInsertWithFilterColumns(t *testing.T) {
	conn, publisher := newWatchedConnection(t)
	db := conn.Sql()

	article := database.Article{Title: "Hello"}
	if err := db.Create(&article).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	comment := database.Comment{ArticleID: article.ID, UserID: "u-1", Content: "hi", AuthorName: "ann"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	changes := publisher.all()
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}

	if changes[0].Table != database.ArticlesTable || changes[0].Op != changefeed.Insert || changes[0].ID != article.ID {
		t.Fatalf("unexpected article change: %+v", changes[0])
	}

	got := changes[1]
	if got.Table != database.CommentsTable || got.ID != comment.ID {
		t.Fatalf("unexpected comment change: %+v", got)
	}

	if got.Fields["article_id"] != article.ID || got.Fields["user_id"] != "u-1" {
		t.Fatalf("expected filter columns, got %+v", got.Fields)
	}

	if !changefeed.Eq("article_id", article.ID).Matches(got) {
		t.Fatalf("expected article filter to match")
	}

	if changefeed.Eq("article_id", "other").Matches(got) {
		t.Fatalf("expected other article filter not to match")
	}
}

func TestWatchPublishesUpdatesAndDeletes(t *testing.T) {
	conn, publisher := newWatchedConnection(t)
	db := conn.Sql()

	subscriber := database.NewsletterSubscriber{Email: "a@b.com"}
	if err := db.Create(&subscriber).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := db.Model(&subscriber).Update("is_active", false).Error; err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := db.Delete(&subscriber).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	changes := publisher.all()
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}

	ops := []changefeed.Op{changefeed.Insert, changefeed.Update, changefeed.Delete}
	for i, op := range ops {
		if changes[i].Op != op || changes[i].Table != database.SubscribersTable || changes[i].ID != subscriber.ID {
			t.Fatalf("change %d: unexpected %+v", i, changes[i])
		}
	}
}

func TestWatchIgnoresUnwatchedTablesAndNoops(t *testing.T) {
	conn, publisher := newWatchedConnection(t)
	db := conn.Sql()

	if err := db.Create(&database.User{Email: "x@y.com", PasswordHash: "hash"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := db.Where("id = ?", "missing").Delete(&database.Article{}).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	if n := len(publisher.all()); n != 0 {
		t.Fatalf("expected no changes, got %d", n)
	}
}

func TestWatchRejectsNilPublisher(t *testing.T) {
	conn, _ := newSQLiteConnection(t)

	if err := conn.Watch(nil); err == nil {
		t.Fatalf("expected error for nil publisher")
	}
}

func TestTransactionPublishesAfterCommit(t *testing.T) {
	conn, publisher := newWatchedConnection(t)

	err := conn.Transaction(t.Context(), func(tx *gorm.DB) error {
		if err := tx.Create(&database.Article{Title: "Inside"}).Error; err != nil {
			return err
		}

		if n := len(publisher.all()); n != 0 {
			t.Errorf("expected no change before commit, got %d", n)
		}

		return nil
	})

	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	if changes := publisher.all(); len(changes) != 1 || changes[0].Table != database.ArticlesTable {
		t.Fatalf("expected the insert after commit, got %+v", changes)
	}
}

func TestTransactionRollbackDropsChanges(t *testing.T) {
	conn, publisher := newWatchedConnection(t)
	boom := errors.New("boom")

	err := conn.Transaction(t.Context(), func(tx *gorm.DB) error {
		if err := tx.Create(&database.Article{Title: "Doomed"}).Error; err != nil {
			return err
		}

		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	if n := len(publisher.all()); n != 0 {
		t.Fatalf("expected no change after rollback, got %d", n)
	}
}

// visibilityPublisher counts the rows another connection can see when a change arrives.
type visibilityPublisher struct {
	db      *gorm.DB
	mu      sync.Mutex
	visible []int64
	errs    []error
}

func (p *visibilityPublisher) Publish(changefeed.Change) {
	var count int64
	err := p.db.Model(&database.Article{}).Count(&count).Error

	p.mu.Lock()
	defer p.mu.Unlock()

	p.visible = append(p.visible, count)
	p.errs = append(p.errs, err)
}

func TestWatchPublishesOnceTheDefaultTransactionCommits(t *testing.T) {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	reader, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}

	for _, handle := range []*gorm.DB{db, reader} {
		sqlDB, err := handle.DB()
		if err != nil {
			t.Fatalf("unwrap sql db: %v", err)
		}

		t.Cleanup(func() { _ = sqlDB.Close() })
	}

	if err := db.AutoMigrate(database.GetSchemaModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	publisher := &visibilityPublisher{db: reader}
	if err := database.NewConnectionFromGorm(db).Watch(publisher); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := db.Create(&database.Article{Title: "Committed"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if len(publisher.visible) != 1 || publisher.errs[0] != nil || publisher.visible[0] != 1 {
		t.Fatalf("expected the row to be visible when notified, got %v (%v)", publisher.visible, publisher.errs)
	}
}
