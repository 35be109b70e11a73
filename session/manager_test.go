package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocks-simulator/auth"
)

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore(time.Hour)
	tokens := auth.NewTokenManager("test-secret", "test", time.Hour)
	return NewManager(store, tokens, ManagerOptions{CookieName: "sid", MaxAge: 3600}), store
}

func testContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		c.Request.AddCookie(ck)
	}
	return c, w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "sid" {
			return ck
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestManagerBeginResolveEnd(t *testing.T) {
	m, _ := newTestManager()

	c, w := testContext()
	require.NoError(t, m.Begin(c, 9))
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)

	c, _ = testContext(ck)
	userID, err := m.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, uint(9), userID)

	c, w = testContext(ck)
	require.NoError(t, m.End(c))
	assert.Equal(t, "", sessionCookie(t, w).Value)

	c, _ = testContext(ck)
	_, err = m.Resolve(c)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerResolveWithoutCookie(t *testing.T) {
	m, _ := newTestManager()
	c, _ := testContext()
	_, err := m.Resolve(c)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerRejectsTamperedCookie(t *testing.T) {
	m, store := newTestManager()
	id, err := store.Create(context.Background(), 3)
	require.NoError(t, err)

	// a raw session id is not a signed token
	c, _ := testContext(&http.Cookie{Name: "sid", Value: id})
	_, err = m.Resolve(c)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerEndWithoutSession(t *testing.T) {
	m, _ := newTestManager()
	c, _ := testContext()
	assert.NoError(t, m.End(c))
}
