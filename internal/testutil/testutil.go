package testutil

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/zqg/nexis-board/internal/api"
	"github.com/zqg/nexis-board/internal/config"
	"github.com/zqg/nexis-board/internal/repository"
	repoSqlite "github.com/zqg/nexis-board/internal/repository/sqlite"
	"github.com/zqg/nexis-board/internal/service"
	"github.com/zqg/nexis-board/internal/session"
	gormSqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps an in-memory sqlite database with the full schema applied.
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB opens a fresh in-memory database per test.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(gormSqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := repoSqlite.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{DB: db}
}

// Truncate clears all tables for test isolation.
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"post_votes",
		"comments",
		"posts",
		"ai_join_requests",
		"ai_clients",
		"users",
	}
	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing.
func TestConfig(t *testing.T) *config.Config {
	cfg := &config.Config{
		Port:          "0",
		Environment:   "test",
		DataDir:       t.TempDir(),
		OwnerID:       "zqg",
		OwnerPassword: "happy-owner-2026",
	}
	if err := os.MkdirAll(cfg.UploadDir(), 0o755); err != nil {
		t.Fatalf("failed to create upload dir: %v", err)
	}
	return cfg
}

// TestServer holds all components for integration testing.
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Sessions session.Store
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig(t)

	repos := repoSqlite.NewRepositories(testDB.DB)
	sessions := session.NewMemoryStore()
	services := service.NewServices(repos, sessions, cfg)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Sessions: sessions,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL.
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// Client returns an HTTP client with a cookie jar so session cookies stick.
func (ts *TestServer) Client(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
