package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zqg/nexis-board/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test human accounts.
type UserBuilder struct {
	username string
	password string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: fmt.Sprintf("user_%s", uuid.NewString()[:8]),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns it with the raw password.
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Username:     b.username,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user, b.password
}

// AIClientBuilder creates credentialed AI clients.
type AIClientBuilder struct {
	name    string
	apiKey  string
	enabled bool
}

func NewAIClientBuilder() *AIClientBuilder {
	return &AIClientBuilder{
		name:    fmt.Sprintf("bot_%s", uuid.NewString()[:8]),
		apiKey:  uuid.NewString(),
		enabled: true,
	}
}

func (b *AIClientBuilder) WithName(name string) *AIClientBuilder {
	b.name = name
	return b
}

func (b *AIClientBuilder) WithAPIKey(key string) *AIClientBuilder {
	b.apiKey = key
	return b
}

func (b *AIClientBuilder) Disabled() *AIClientBuilder {
	b.enabled = false
	return b
}

func (b *AIClientBuilder) Build(t *testing.T, db *gorm.DB) *domain.AIClient {
	t.Helper()

	client := &domain.AIClient{
		Name:    b.name,
		APIKey:  b.apiKey,
		Enabled: b.enabled,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create ai client: %v", err)
	}
	// GORM replaces a zero-valued field that has a default tag with the
	// default on Create, so a disabled client must be flipped afterwards.
	if !b.enabled {
		if err := db.Model(client).Update("enabled", false).Error; err != nil {
			t.Fatalf("failed to disable ai client: %v", err)
		}
	}
	return client
}

// JoinRequestBuilder creates admission requests directly in the store.
type JoinRequestBuilder struct {
	name   string
	code   string
	status string
}

func NewJoinRequestBuilder() *JoinRequestBuilder {
	return &JoinRequestBuilder{
		name:   fmt.Sprintf("bot_%s", uuid.NewString()[:8]),
		code:   "secret-code",
		status: domain.RequestPending,
	}
}

func (b *JoinRequestBuilder) WithName(name string) *JoinRequestBuilder {
	b.name = name
	return b
}

func (b *JoinRequestBuilder) WithCode(code string) *JoinRequestBuilder {
	b.code = code
	return b
}

func (b *JoinRequestBuilder) WithStatus(status string) *JoinRequestBuilder {
	b.status = status
	return b
}

func (b *JoinRequestBuilder) Build(t *testing.T, db *gorm.DB) *domain.AIJoinRequest {
	t.Helper()

	req := &domain.AIJoinRequest{
		Name:         b.name,
		PersonalCode: b.code,
		QuizText:     "I want to join and help out here #NEXIS",
		QuizJSON:     datatypes.JSON(`{"intent":"testing","style":"short","tag":"NEXIS"}`),
		RequestedAt:  time.Now(),
		Status:       b.status,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create join request: %v", err)
	}
	return req
}

// PostBuilder creates posts.
type PostBuilder struct {
	title      string
	body       string
	author     string
	authorType domain.Role
}

func NewPostBuilder() *PostBuilder {
	return &PostBuilder{
		title:      "test post",
		body:       "test body",
		author:     "zqg",
		authorType: domain.RoleOwner,
	}
}

func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.title = title
	return b
}

func (b *PostBuilder) WithAuthor(author string, role domain.Role) *PostBuilder {
	b.author = author
	b.authorType = role
	return b
}

func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	post := &domain.Post{
		Title:      b.title,
		Body:       b.body,
		Author:     b.author,
		AuthorType: b.authorType,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

// PostJSON sends a JSON POST with the given client and decodes nothing.
func PostJSON(t *testing.T, client *http.Client, url string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// DecodeJSON decodes a response body into v and closes it.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// LoginOwner authenticates the configured owner and returns a cookie-bearing
// client.
func (ts *TestServer) LoginOwner(t *testing.T) *http.Client {
	t.Helper()

	client := ts.Client(t)
	resp := PostJSON(t, client, ts.BaseURL()+"/auth/login", map[string]string{
		"id":       ts.Config.OwnerID,
		"password": ts.Config.OwnerPassword,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner login failed: status %d", resp.StatusCode)
	}
	return client
}

// LoginHuman signs up and logs in a fresh human account.
func (ts *TestServer) LoginHuman(t *testing.T, username, password string) *http.Client {
	t.Helper()

	client := ts.Client(t)
	resp := PostJSON(t, client, ts.BaseURL()+"/auth/human-signup", map[string]string{
		"username": username,
		"password": password,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("human signup failed: status %d", resp.StatusCode)
	}

	resp = PostJSON(t, client, ts.BaseURL()+"/auth/human-login", map[string]string{
		"username": username,
		"password": password,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("human login failed: status %d", resp.StatusCode)
	}
	return client
}
