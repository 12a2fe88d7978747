package seeds

import (
	"context"
	"fmt"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/metal/env"
	"github.com/perspective/pkg/auth"
	"github.com/perspective/pkg/live"
)

// Password is shared by every seeded account.
const Password = "password-for-seeds"

type Seeder struct {
	dbConn      *database.Connection
	environment *env.Environment
	users       repository.Users
	articles    repository.Articles
	comments    repository.Comments
	subscribers repository.Subscribers
}

func MakeSeeder(dbConnection *database.Connection, environment *env.Environment) *Seeder {
	return &Seeder{
		dbConn:      dbConnection,
		environment: environment,
		users:       repository.Users{DB: dbConnection},
		articles:    repository.Articles{DB: dbConnection},
		comments:    repository.Comments{DB: dbConnection},
		subscribers: repository.Subscribers{DB: dbConnection},
	}
}

func (s *Seeder) roles() repository.UserRoles {
	return repository.UserRoles{DB: s.dbConn}
}

func (s *Seeder) TruncateDB() error {
	return database.NewTruncate(s.dbConn, s.environment).Execute()
}

// SeedUsers creates one admin and one reader.
func (s *Seeder) SeedUsers(ctx context.Context) (database.User, database.User, error) {
	hash, err := auth.MakePassword(Password)
	if err != nil {
		return database.User{}, database.User{}, fmt.Errorf("failed to generate seed password: %w", err)
	}

	admin, err := s.users.Create(ctx, database.UserAttrs{
		Email:        "admin@perspective.test",
		PasswordHash: hash.GetHash(),
		Role:         database.RoleAdmin,
	})

	if err != nil {
		return database.User{}, database.User{}, fmt.Errorf("issues creating the admin: %w", err)
	}

	reader, err := s.users.Create(ctx, database.UserAttrs{
		Email:        "jane.doe@perspective.test",
		PasswordHash: hash.GetHash(),
	})

	if err != nil {
		return database.User{}, database.User{}, fmt.Errorf("issues creating the reader: %w", err)
	}

	return *admin, *reader, nil
}

// SeedArticles stores the fixture articles and features the first two published ones.
func (s *Seeder) SeedArticles(ctx context.Context) ([]database.Article, error) {
	var articles []database.Article
	var featured []string

	for _, attrs := range articleFixtures() {
		article, err := s.articles.Create(ctx, attrs)
		if err != nil {
			return nil, fmt.Errorf("issues creating article [%s]: %w", attrs.Title, err)
		}

		if article.Published && len(featured) < 2 {
			featured = append(featured, article.ID)
		}

		articles = append(articles, *article)
	}

	if err := s.articles.SetFeatured(ctx, featured); err != nil {
		return nil, fmt.Errorf("issues featuring articles: %w", err)
	}

	return articles, nil
}

// SeedComments leaves a comment from the reader under every published article.
func (s *Seeder) SeedComments(ctx context.Context, author database.User, articles ...database.Article) ([]database.Comment, error) {
	var comments []database.Comment

	for _, article := range articles {
		if !article.Published {
			continue
		}

		comment, err := s.comments.Create(ctx, database.CommentAttrs{
			ArticleID:  article.ID,
			UserID:     author.ID,
			Content:    fmt.Sprintf("Thanks for writing about %s.", article.Title),
			AuthorName: live.AuthorNameFor(author.Email),
		})

		if err != nil {
			return nil, fmt.Errorf("error creating comments: %w", err)
		}

		comments = append(comments, *comment)
	}

	return comments, nil
}

func (s *Seeder) SeedSubscribers(ctx context.Context) error {
	emails := []string{"reader.one@perspective.test", "reader.two@perspective.test", "reader.three@perspective.test"}

	for _, email := range emails {
		if _, err := s.subscribers.Subscribe(ctx, email); err != nil {
			return err
		}
	}

	return nil
}

func articleFixtures() []database.ArticleAttrs {
	return []database.ArticleAttrs{
		{
			Title:     "A Week in Lisbon",
			Category:  "travel",
			Excerpt:   "Trams, tiles and long lunches.",
			Content:   "Lisbon rewards slow walkers.",
			Author:    "Perspective Desk",
			ReadTime:  "6 min read",
			Published: true,
		},
		{
			Title:     "Packing Light for the Alps",
			Category:  "travel",
			Excerpt:   "Everything fits in one bag.",
			Content:   "Layers beat bulk.",
			Author:    "Perspective Desk",
			ReadTime:  "4 min read",
			Published: true,
		},
		{
			Title:     "Reading the Bond Market",
			Category:  "finance",
			Excerpt:   "Yields explained without jargon.",
			Content:   "A yield curve is a price list for time.",
			Author:    "Perspective Desk",
			ReadTime:  "8 min read",
			Published: true,
		},
		{
			Title:    "Notes for the Spring Issue",
			Category: "general",
			Content:  "Draft outline.",
		},
	}
}
