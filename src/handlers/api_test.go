package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zirvehikayem/blog-api/src/database"
	"github.com/zirvehikayem/blog-api/src/middleware"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/repositories"
	"github.com/zirvehikayem/blog-api/src/services"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminPassword = "correct-horse-battery"
	testTokenSecret   = "handler-tests-secret-0123456789abcdef"
)

type testAPI struct {
	router *gin.Engine
	tokens *services.TokenService
}

// newTestAPI wires the real services over an in-memory store
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	admin, err := services.NewIdentity("admin", testAdminPassword, "admin@zirvehikayem.com", "Site Yöneticisi", bcrypt.MinCost)
	require.NoError(t, err)
	editor, err := services.NewIdentity("editor", testAdminPassword, "editor@zirvehikayem.com", "", bcrypt.MinCost)
	require.NoError(t, err)
	editor.Role = models.Role("editor")

	creds, err := services.NewCredentialStore([]models.Identity{admin, editor})
	require.NoError(t, err)
	tokens, err := services.NewTokenService(testTokenSecret, creds)
	require.NoError(t, err)

	store := database.NewMemoryStore()
	posts := services.NewPostService(repositories.NewPostStore(store), services.PostServiceConfig{
		Author:             "Zirve Hikayem",
		AllCategoriesLabel: "Tümü",
	}, nil, nil)
	contact := services.NewContactService(repositories.NewMessageStore(store), nil, nil, nil)
	about := services.NewAboutService(repositories.NewAboutStore(store), models.AboutContent{
		Title:  "Hakkımda",
		Values: []string{"Merak"},
	}, nil)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	RegisterRoutes(router, Handlers{
		Auth:    NewAuthHandler(creds, tokens, nil),
		Posts:   NewPostHandler(posts),
		Contact: NewContactHandler(contact),
		About:   NewAboutHandler(about),
		Health:  NewHealthHandler(store, "memory"),
	}, services.NewAuthGate(tokens))

	return &testAPI{router: router, tokens: tokens}
}

func (a *testAPI) login(t *testing.T) string {
	t.Helper()
	w := performRequest(t, a.router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin",
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (a *testAPI) editorToken(t *testing.T) string {
	t.Helper()
	w := performRequest(t, a.router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "editor",
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	decodeJSON(t, w, &resp)
	return resp.AccessToken
}

func samplePost(title string) gin.H {
	return gin.H{
		"title":    title,
		"excerpt":  "Kısa bir özet",
		"content":  "Bu yazı kariyer yolculuğumun ilk adımlarını anlatıyor.",
		"category": "Kariyer",
		"tags":     []string{"kariyer", "kariyer", " "},
	}
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	w := performRequest(t, api.router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin",
		"password": testAdminPassword,
	})
	assertStatusCode(t, w, http.StatusOK)

	var resp map[string]interface{}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "bearer", resp["token_type"])
	assert.NotEmpty(t, resp["access_token"])
	assert.NotEmpty(t, resp["expires_at"])

	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "Site Yöneticisi", user["full_name"])
	assert.Equal(t, "admin", user["role"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "PasswordHash")
}

func TestLogin_Failures(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"wrong password", gin.H{"username": "admin", "password": "nope-nope"}, http.StatusUnauthorized},
		{"unknown user", gin.H{"username": "ghost", "password": testAdminPassword}, http.StatusUnauthorized},
		{"missing password", gin.H{"username": "admin"}, http.StatusUnprocessableEntity},
		{"malformed json", `{"username":`, http.StatusBadRequest},
		{"empty body", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(t, api.router, http.MethodPost, "/api/auth/login", "", tt.body)
			assertStatusCode(t, w, tt.wantStatus)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
				assertJSONError(t, w, "Incorrect username or password")
			}
		})
	}
}

func TestVerifyAndLogout(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	w := performRequest(t, api.router, http.MethodPost, "/api/auth/verify", token, nil)
	assertStatusCode(t, w, http.StatusOK)
	var resp struct {
		Valid bool                  `json:"valid"`
		User  models.PublicIdentity `json:"user"`
	}
	decodeJSON(t, w, &resp)
	assert.True(t, resp.Valid)
	assert.Equal(t, "admin", resp.User.Username)

	w = performRequest(t, api.router, http.MethodPost, "/api/auth/verify", "", nil)
	assertStatusCode(t, w, http.StatusUnauthorized)

	w = performRequest(t, api.router, http.MethodPost, "/api/auth/logout", token, nil)
	assertStatusCode(t, w, http.StatusOK)
}

func TestCreatePost_EndToEnd(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)
	body := samplePost("Kariyerde İlk Adım")

	w := performRequest(t, api.router, http.MethodPost, "/api/posts", token, body)
	assertStatusCode(t, w, http.StatusOK)

	var post models.BlogPost
	decodeJSON(t, w, &post)
	assert.Equal(t, services.GenerateSlug("Kariyerde İlk Adım"), post.Slug)
	assert.Equal(t, services.CalculateReadTime(body["content"].(string)), post.ReadTime)
	assert.Equal(t, "Zirve Hikayem", post.Author)
	assert.Equal(t, []string{"kariyer"}, post.Tags)

	// no token
	w = performRequest(t, api.router, http.MethodPost, "/api/posts", "", body)
	assertStatusCode(t, w, http.StatusUnauthorized)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	// valid token, wrong role
	w = performRequest(t, api.router, http.MethodPost, "/api/posts", api.editorToken(t), body)
	assertStatusCode(t, w, http.StatusForbidden)
	assertJSONError(t, w, "Admin access required")

	// garbage token
	w = performRequest(t, api.router, http.MethodPost, "/api/posts", "not.a.jwt", body)
	assertStatusCode(t, w, http.StatusUnauthorized)

	// the same title again gets a distinct slug
	w = performRequest(t, api.router, http.MethodPost, "/api/posts", token, body)
	assertStatusCode(t, w, http.StatusOK)
	var second models.BlogPost
	decodeJSON(t, w, &second)
	assert.NotEqual(t, post.Slug, second.Slug)
	assert.Contains(t, second.Slug, post.Slug+"-")
}

func TestCreatePost_Validation(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	body := samplePost("")
	w := performRequest(t, api.router, http.MethodPost, "/api/posts", token, body)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	var resp struct {
		Fields []services.FieldError `json:"fields"`
	}
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp.Fields)
	assert.Equal(t, "title", resp.Fields[0].Field)

	body = samplePost("   ")
	w = performRequest(t, api.router, http.MethodPost, "/api/posts", token, body)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	body = samplePost("Geçerli")
	body["featured"] = "yes"
	w = performRequest(t, api.router, http.MethodPost, "/api/posts", token, body)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
}

func TestPostLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	w := performRequest(t, api.router, http.MethodPost, "/api/posts", token, samplePost("Yaşam Döngüsü"))
	require.Equal(t, http.StatusOK, w.Code)
	var post models.BlogPost
	decodeJSON(t, w, &post)

	w = performRequest(t, api.router, http.MethodGet, "/api/posts/"+post.Slug, "", nil)
	assertStatusCode(t, w, http.StatusOK)

	w = performRequest(t, api.router, http.MethodPut, "/api/posts/"+post.ID, token, gin.H{
		"featured": true,
		"title":    nil,
	})
	assertStatusCode(t, w, http.StatusOK)
	var updated models.BlogPost
	decodeJSON(t, w, &updated)
	assert.True(t, updated.Featured)
	assert.Equal(t, post.Title, updated.Title)
	assert.Equal(t, post.Slug, updated.Slug)

	w = performRequest(t, api.router, http.MethodGet, "/api/posts/featured", "", nil)
	var featured []models.BlogPost
	decodeJSON(t, w, &featured)
	require.Len(t, featured, 1)
	assert.Equal(t, post.ID, featured[0].ID)

	w = performRequest(t, api.router, http.MethodPut, "/api/posts/missing", token, gin.H{"featured": false})
	assertStatusCode(t, w, http.StatusNotFound)
	assertJSONError(t, w, "Post not found")

	w = performRequest(t, api.router, http.MethodDelete, "/api/posts/"+post.ID, token, nil)
	assertStatusCode(t, w, http.StatusOK)
	var msg MessageResponse
	decodeJSON(t, w, &msg)
	assert.Equal(t, "Post deleted successfully", msg.Message)
	assert.Equal(t, "success", msg.Status)

	w = performRequest(t, api.router, http.MethodDelete, "/api/posts/"+post.ID, token, nil)
	assertStatusCode(t, w, http.StatusNotFound)

	w = performRequest(t, api.router, http.MethodGet, "/api/posts/"+post.Slug, "", nil)
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestListPostsAndCategories(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	for _, p := range []struct{ title, category string }{
		{"Bir", "Kariyer"}, {"İki", "Girişim"}, {"Üç", "Kariyer"},
	} {
		body := samplePost(p.title)
		body["category"] = p.category
		w := performRequest(t, api.router, http.MethodPost, "/api/posts", token, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var posts []models.BlogPost
	w := performRequest(t, api.router, http.MethodGet, "/api/posts?category=Kariyer", "", nil)
	assertStatusCode(t, w, http.StatusOK)
	decodeJSON(t, w, &posts)
	assert.Len(t, posts, 2)

	w = performRequest(t, api.router, http.MethodGet, "/api/posts?category=T%C3%BCm%C3%BC", "", nil)
	decodeJSON(t, w, &posts)
	assert.Len(t, posts, 3)

	w = performRequest(t, api.router, http.MethodGet, "/api/posts?limit=1", "", nil)
	decodeJSON(t, w, &posts)
	assert.Len(t, posts, 1)

	w = performRequest(t, api.router, http.MethodGet, "/api/posts?limit=abc", "", nil)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = performRequest(t, api.router, http.MethodGet, "/api/posts?featured=maybe", "", nil)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	var categories []string
	w = performRequest(t, api.router, http.MethodGet, "/api/categories", "", nil)
	assertStatusCode(t, w, http.StatusOK)
	decodeJSON(t, w, &categories)
	assert.Equal(t, []string{"Tümü", "Girişim", "Kariyer"}, categories)
}

func TestContactFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	w := performRequest(t, api.router, http.MethodPost, "/api/contact", "", gin.H{
		"name":    "Ayşe",
		"email":   "ayse@example.com",
		"message": "Merhaba!",
	})
	assertStatusCode(t, w, http.StatusOK)
	var ack MessageResponse
	decodeJSON(t, w, &ack)
	assert.Equal(t, contactReceivedMessage, ack.Message)

	w = performRequest(t, api.router, http.MethodPost, "/api/contact", "", gin.H{
		"name":    "Ayşe",
		"email":   "not-an-email",
		"message": "Merhaba!",
	})
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	// the inbox is admin only
	w = performRequest(t, api.router, http.MethodGet, "/api/contact", "", nil)
	assertStatusCode(t, w, http.StatusUnauthorized)

	var messages []models.ContactMessage
	w = performRequest(t, api.router, http.MethodGet, "/api/contact", token, nil)
	assertStatusCode(t, w, http.StatusOK)
	decodeJSON(t, w, &messages)
	require.Len(t, messages, 1)
	assert.Equal(t, models.MessageStatusNew, messages[0].Status)
	id := messages[0].ID

	w = performRequest(t, api.router, http.MethodPut, "/api/contact/"+id+"/status?status=read", token, nil)
	assertStatusCode(t, w, http.StatusOK)
	decodeJSON(t, w, &ack)
	assert.Equal(t, "Message status updated successfully", ack.Message)

	w = performRequest(t, api.router, http.MethodPut, "/api/contact/"+id+"/status", token, gin.H{"status": "replied"})
	assertStatusCode(t, w, http.StatusOK)

	w = performRequest(t, api.router, http.MethodGet, "/api/contact?status=replied", token, nil)
	decodeJSON(t, w, &messages)
	assert.Len(t, messages, 1)

	w = performRequest(t, api.router, http.MethodPut, "/api/contact/"+id+"/status?status=archived", token, nil)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = performRequest(t, api.router, http.MethodPut, "/api/contact/missing/status?status=read", token, nil)
	assertStatusCode(t, w, http.StatusNotFound)
	assertJSONError(t, w, "Message not found")
}

func TestAboutFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	var about map[string]interface{}
	w := performRequest(t, api.router, http.MethodGet, "/api/about", "", nil)
	assertStatusCode(t, w, http.StatusOK)
	decodeJSON(t, w, &about)
	assert.Equal(t, "Hakkımda", about["title"])
	assert.NotContains(t, about, "updatedAt")

	w = performRequest(t, api.router, http.MethodPut, "/api/about", "", gin.H{"title": "x"})
	assertStatusCode(t, w, http.StatusUnauthorized)

	w = performRequest(t, api.router, http.MethodPut, "/api/about", token, gin.H{"mission": "Yeni misyon"})
	assertStatusCode(t, w, http.StatusOK)

	w = performRequest(t, api.router, http.MethodGet, "/api/about", "", nil)
	decodeJSON(t, w, &about)
	assert.Equal(t, "Hakkımda", about["title"])
	assert.Equal(t, "Yeni misyon", about["mission"])
	assert.Contains(t, about, "updatedAt")
}

func TestRootAndHealth(t *testing.T) {
	api := newTestAPI(t)

	var root map[string]interface{}
	w := performRequest(t, api.router, http.MethodGet, "/api/", "", nil)
	assertStatusCode(t, w, http.StatusOK)
	decodeJSON(t, w, &root)
	assert.Equal(t, "Zirve Hikayem API", root["message"])
	assert.Equal(t, "1.0.0", root["version"])

	w = performRequest(t, api.router, http.MethodGet, "/health", "", nil)
	assertStatusCode(t, w, http.StatusOK)
	w = performRequest(t, api.router, http.MethodGet, "/ready", "", nil)
	assertStatusCode(t, w, http.StatusOK)
}

// failingStore reports an unreachable backend
type failingStore struct{}

func (failingStore) Health(context.Context) error { return errors.New("connection refused") }

func TestHandleHealth_StoreDown(t *testing.T) {
	w, c := createTestContext()
	c.Request, _ = http.NewRequest(http.MethodGet, "/health", nil)

	NewHealthHandler(failingStore{}, "mongo").HandleHealth(c)

	assertStatusCode(t, w, http.StatusServiceUnavailable)
	var resp map[string]interface{}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "unhealthy", resp["status"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRespondError_InternalIsGeneric(t *testing.T) {
	w, c := createTestContext()
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/posts", nil)

	respondError(c, "Post", errors.New("pq: relation does not exist"))

	assertStatusCode(t, w, http.StatusInternalServerError)
	assertJSONError(t, w, "Internal server error")
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestRespondError_Conflict(t *testing.T) {
	w, c := createTestContext()
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/posts", nil)

	respondError(c, "Post", services.ErrConflict)

	assertStatusCode(t, w, http.StatusConflict)
}
