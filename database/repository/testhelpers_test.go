package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
)

func newSQLiteConnection(t *testing.T) *database.Connection {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	if err := db.AutoMigrate(database.GetSchemaModels()...); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database.NewConnectionFromGorm(db)
}

func seedArticle(t *testing.T, conn *database.Connection, title, category string, published bool, createdAt time.Time) database.Article {
	t.Helper()

	repo := repository.Articles{DB: conn}

	article, err := repo.Create(t.Context(), database.ArticleAttrs{
		Title:     title,
		Category:  category,
		Excerpt:   title + " excerpt",
		Published: published,
		CreatedAt: &createdAt,
	})

	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	return *article
}

func seedUser(t *testing.T, conn *database.Connection, email, role string) database.User {
	t.Helper()

	user, err := repository.Users{DB: conn}.Create(t.Context(), database.UserAttrs{
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	})

	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	return *user
}

func ids(articles []database.Article) []string {
	out := make([]string, 0, len(articles))

	for _, a := range articles {
		out = append(out, a.ID)
	}

	return out
}

func sameIDs(got []database.Article, want ...string) bool {
	g := ids(got)

	if len(g) != len(want) {
		return false
	}

	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}

	return true
}
