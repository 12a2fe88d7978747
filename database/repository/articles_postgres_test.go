package repository_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/database/repository/queries"
	"github.com/perspective/metal/env"
)

func newPostgresConnection(t *testing.T) *database.Connection {
	t.Helper()

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}

	if err := exec.Command("docker", "ps").Run(); err != nil {
		t.Skip("docker not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("secret"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("container run err: %v", err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("host err: %v", err)
	}

	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port err: %v", err)
	}

	e := &env.Environment{
		DB: env.DBEnvironment{
			UserName:     "test",
			UserPassword: "secret",
			DatabaseName: "testdb",
			Port:         port.Int(),
			Host:         host,
			DriverName:   database.DriverName,
			SSLMode:      "disable",
			TimeZone:     "UTC",
		},
	}

	if err := database.Migrate(e.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	conn, err := database.MakeConnection(e)
	if err != nil {
		t.Fatalf("make connection: %v", err)
	}

	t.Cleanup(func() {
		if err := conn.Ping(); err == nil {
			conn.Close()
		}

		_ = pg.Terminate(context.Background())
	})

	return conn
}

func TestArticlesAgainstPostgres(t *testing.T) {
	conn := newPostgresConnection(t)
	repo := repository.Articles{DB: conn}
	subscribers := repository.Subscribers{DB: conn}
	now := time.Now().UTC()

	a1 := seedArticle(t, conn, "Lisbon by tram", "Travel", true, now)
	a2 := seedArticle(t, conn, "Porto at dusk", "travel", true, now.Add(-time.Hour))
	seedArticle(t, conn, "Breathing", "wellness", true, now.Add(-2*time.Hour))

	related, err := repo.RelatedByCategory(t.Context(), "TRAVEL", a1.ID, 3)
	if err != nil {
		t.Fatalf("related: %v", err)
	}

	if !sameIDs(related, a2.ID) {
		t.Fatalf("expected [a2], got %v", ids(related))
	}

	found, err := repo.Published(t.Context(), queries.ArticleFilters{Text: "DUSK"})
	if err != nil || !sameIDs(found, a2.ID) {
		t.Fatalf("expected search to match a2, got %v %v", ids(found), err)
	}

	if _, err := subscribers.Subscribe(t.Context(), "pg@example.com"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	again, err := subscribers.Subscribe(t.Context(), "PG@example.com")
	if err != nil || !again.AlreadySubscribed {
		t.Fatalf("expected duplicate to be detected on postgres, got %+v %v", again, err)
	}
}
