package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopfront/internal/config"
	handlershared "github.com/shopfront/internal/http/handlers/shared"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/service"

	"github.com/gin-gonic/gin"
)

type fakeSessions struct {
	token      string
	lastToken  string
	lastUserID *uint
	err        error
}

func (f *fakeSessions) Ensure(_ context.Context, token string, userID *uint) (*models.Session, bool, error) {
	f.lastToken = token
	f.lastUserID = userID
	if f.err != nil {
		return nil, false, f.err
	}
	return &models.Session{Token: f.token, UserID: userID}, token != f.token, nil
}

type fakeAuth struct {
	users map[string]*models.User
}

func (f *fakeAuth) ParseUserJWT(tokenString string) (*service.UserJWTClaims, error) {
	user, ok := f.users[tokenString]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &service.UserJWTClaims{UserID: user.ID, Username: user.Username}, nil
}

func (f *fakeAuth) ResolveAuthUser(_ context.Context, userID uint) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, service.ErrUserNotFound
}

type fakeGate struct {
	allowRole string
	calls     int
	lastObj   string
}

func (f *fakeGate) Authorize(user *models.User, obj, act string) (bool, error) {
	f.calls++
	f.lastObj = obj
	return user != nil && user.Role == f.allowRole, nil
}

func decodeStatusCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestSessionMiddlewareSetsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessions := &fakeSessions{token: "fresh-token"}
	r := gin.New()
	r.Use(SessionMiddleware(sessions, nil, config.SessionConfig{CookieName: "sid", CookieMaxAgeDays: 1}))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": handlershared.GetSessionToken(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "sid=fresh-token") || !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("expected session cookie, got %q", cookie)
	}
	if !strings.Contains(w.Body.String(), `"session":"fresh-token"`) {
		t.Fatalf("session token should be stored in context, got %s", w.Body.String())
	}

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "fresh-token"})
	r.ServeHTTP(w2, req)
	if sessions.lastToken != "fresh-token" {
		t.Fatalf("incoming cookie should be passed to tracker, got %q", sessions.lastToken)
	}
	if got := w2.Header().Get("Set-Cookie"); got != "" {
		t.Fatalf("unchanged session should not rewrite cookie, got %q", got)
	}
}

func TestSessionMiddlewareAttachesBearerUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessions := &fakeSessions{token: "s1"}
	auth := &fakeAuth{users: map[string]*models.User{"tok-alice": {ID: 7, Username: "alice"}}}
	r := gin.New()
	r.Use(SessionMiddleware(sessions, auth, config.SessionConfig{}))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	r.ServeHTTP(w, req)
	if sessions.lastUserID == nil || *sessions.lastUserID != 7 {
		t.Fatalf("expected bearer user to be attached, got %v", sessions.lastUserID)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), defaultCookieName+"=s1") {
		t.Fatalf("default cookie name should be used, got %q", w.Header().Get("Set-Cookie"))
	}
}

func TestSessionMiddlewareFailureDoesNotBlock(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SessionMiddleware(&fakeSessions{err: errors.New("db down")}, nil, config.SessionConfig{}))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("request should continue when session tracking fails, got %s", w.Body.String())
	}
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := &fakeAuth{users: map[string]*models.User{"tok-bob": {ID: 3, Username: "bob", Role: "client"}}}
	r := gin.New()
	r.Use(UserJWTAuthMiddleware(auth))
	r.GET("/me", func(c *gin.Context) {
		user, _ := handlershared.GetContextUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(handlershared.ContextKeyUserID), "username": user.Username})
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: 401},
		{name: "malformed", header: "Token tok-bob", want: 401},
		{name: "unknown", header: "Bearer nope", want: 401},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if got := decodeStatusCode(t, w.Body.Bytes()); got != tc.want {
				t.Fatalf("status_code want %d got %d", tc.want, got)
			}
		})
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok-bob")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"user_id":3`) || !strings.Contains(w.Body.String(), `"username":"bob"`) {
		t.Fatalf("authenticated user should be in context, got %s", w.Body.String())
	}
}

func TestAdminGateMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gate := &fakeGate{allowRole: "admin"}
	toggled := false
	build := func(user *models.User) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if user != nil {
				c.Set(handlershared.ContextKeyUser, user)
			}
			c.Next()
		})
		r.Use(AdminGateMiddleware(gate))
		r.POST("/api/v1/admin/products/:id/deactivate", func(c *gin.Context) {
			toggled = true
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return r
	}

	w := httptest.NewRecorder()
	build(&models.User{ID: 2, Role: "client"}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/5/deactivate", nil))
	if got := decodeStatusCode(t, w.Body.Bytes()); got != 403 {
		t.Fatalf("client should be forbidden, got %d", got)
	}
	if toggled {
		t.Fatalf("forbidden request must not reach the handler")
	}
	if gate.lastObj != "/api/v1/admin/products/:id/deactivate" {
		t.Fatalf("gate should receive the route template, got %s", gate.lastObj)
	}

	w = httptest.NewRecorder()
	build(nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/5/deactivate", nil))
	if got := decodeStatusCode(t, w.Body.Bytes()); got != 401 {
		t.Fatalf("anonymous request should be unauthorized, got %d", got)
	}

	w = httptest.NewRecorder()
	build(&models.User{ID: 1, Role: "admin"}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/5/deactivate", nil))
	if !toggled {
		t.Fatalf("admin request should reach the handler, body=%s", w.Body.String())
	}
}
