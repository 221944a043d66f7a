package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/auth"
	"github.com/lalith-99/beans/internal/mail"
	"github.com/lalith-99/beans/internal/repository/memory"
	"github.com/lalith-99/beans/internal/store"
	"github.com/lalith-99/beans/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type discardScheduler struct{}

func (discardScheduler) At(time.Time, func()) {}

func newTestRouter(t *testing.T, enableClear bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	svc := workspace.New(workspace.Deps{
		Registry:  store.NewRegistry(nil, store.NewSequence(1)),
		Repo:      memory.NewSnapshotStore(),
		Issuer:    auth.NewIssuer("test-secret", 0),
		Hasher:    auth.NewHasher(bcrypt.MinCost),
		Mailer:    mail.NewLogMailer(logger),
		Scheduler: discardScheduler{},
		Logger:    logger,
	})
	return NewRouter(RouterConfig{
		Service:     svc,
		Logger:      logger,
		Lock:        &sync.Mutex{},
		EnableClear: enableClear,
	})
}

// call sends a JSON request and decodes the JSON reply into a map.
func call(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func register(t *testing.T, r *gin.Engine, first string) (string, int64) {
	t.Helper()
	code, out := call(t, r, http.MethodPost, "/v1/auth/register", "", gin.H{
		"email":     first + "@example.com",
		"password":  "password123",
		"nameFirst": first,
		"nameLast":  "Tester",
	})
	require.Equal(t, http.StatusOK, code, out)
	return out["token"].(string), int64(out["authUserId"].(float64))
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, false)
	code, out := call(t, r, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out["status"])
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t, false)
	token, uid := register(t, r, "alice")

	code, _ := call(t, r, http.MethodGet, "/v1/channels/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out := call(t, r, http.MethodPost, "/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "incorrect password", out["error"])

	code, out = call(t, r, http.MethodPost, "/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, uid, out["authUserId"])
	second := out["token"].(string)

	code, _ = call(t, r, http.MethodPost, "/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodGet, "/v1/channels/list", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = call(t, r, http.MethodGet, "/v1/channels/list", second, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestChannelEndpoints(t *testing.T) {
	r := newTestRouter(t, false)
	alice, _ := register(t, r, "alice")
	bob, _ := register(t, r, "bob")

	code, out := call(t, r, http.MethodPost, "/v1/channels/create", alice, gin.H{"name": "general", "isPublic": false})
	require.Equal(t, http.StatusOK, code)
	channelID := int64(out["channelId"].(float64))

	code, _ = call(t, r, http.MethodPost, "/v1/channel/join", bob, gin.H{"channelId": channelID})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = call(t, r, http.MethodGet, fmt.Sprintf("/v1/channel/details?channelId=%d", channelID), bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, out = call(t, r, http.MethodPost, "/v1/channel/join", alice, gin.H{"channelId": channelID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "user already belongs to channel", out["error"])

	code, out = call(t, r, http.MethodGet, fmt.Sprintf("/v1/channel/details?channelId=%d", channelID), alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "general", out["name"])
	assert.Len(t, out["allMembers"], 1)

	code, _ = call(t, r, http.MethodGet, "/v1/channel/details", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code, "missing channelId")
}

func TestMessageEndpoints(t *testing.T) {
	r := newTestRouter(t, false)
	alice, uid := register(t, r, "alice")
	_, out := call(t, r, http.MethodPost, "/v1/channels/create", alice, gin.H{"name": "general", "isPublic": true})
	channelID := int64(out["channelId"].(float64))

	code, out := call(t, r, http.MethodPost, "/v1/message/send", alice, gin.H{"channelId": channelID, "message": "hello world"})
	require.Equal(t, http.StatusOK, code)
	messageID := int64(out["messageId"].(float64))

	code, _ = call(t, r, http.MethodPost, "/v1/message/sendlater", alice, gin.H{"channelId": channelID, "message": "later"})
	assert.Equal(t, http.StatusBadRequest, code, "sendlater needs timeSent")

	code, out = call(t, r, http.MethodGet, fmt.Sprintf("/v1/channel/messages?channelId=%d&start=0", channelID), alice, nil)
	require.Equal(t, http.StatusOK, code)
	msgs := out["messages"].([]any)
	require.Len(t, msgs, 1)
	first := msgs[0].(map[string]any)
	assert.EqualValues(t, messageID, first["messageId"])
	assert.EqualValues(t, uid, first["uId"])
	assert.EqualValues(t, -1, out["end"])

	code, _ = call(t, r, http.MethodGet, fmt.Sprintf("/v1/channel/messages?channelId=%d", channelID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, code, "missing start")

	code, out = call(t, r, http.MethodGet, "/v1/search?queryStr=WORLD", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["messages"], 1)

	code, _ = call(t, r, http.MethodPost, "/v1/message/react", alice, gin.H{"messageId": messageID, "reactId": 1})
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodPost, "/v1/message/pin", alice, gin.H{"messageId": messageID})
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodPut, "/v1/message/edit", alice, gin.H{"messageId": messageID, "message": ""})
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodDelete, fmt.Sprintf("/v1/message/remove?messageId=%d", messageID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, code, "already removed by the empty edit")
}

func TestClearRoute(t *testing.T) {
	r := newTestRouter(t, false)
	code, _ := call(t, r, http.MethodDelete, "/v1/clear", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	r = newTestRouter(t, true)
	token, _ := register(t, r, "alice")
	code, _ = call(t, r, http.MethodDelete, "/v1/clear", "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodGet, "/v1/users/all", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusOf(apperr.BadRequest("x")))
	assert.Equal(t, http.StatusForbidden, statusOf(apperr.Forbidden("x")))
	assert.Equal(t, http.StatusUnauthorized, statusOf(fmt.Errorf("parse: %w", auth.ErrInvalidToken)))
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("disk full")))
}

func TestFail_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h := &handler{logger: zap.NewNop()}
	h.fail(c, errors.New("persist snapshot: disk full"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestHealth_BackendDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Logger: zap.NewNop(),
		Lock:   &sync.Mutex{},
		Ready:  func(context.Context) error { return errors.New("connection refused") },
	})
	code, out := call(t, r, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", out["status"])
}
