package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/config"
	"github.com/lalith-99/beans/internal/mail"
	"github.com/lalith-99/beans/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T, backend string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Env:          "test",
		JWTSecret:    "secret",
		StoreBackend: backend,
		DataFile:     filepath.Join(dir, "beans.json"),
		SQLitePath:   filepath.Join(dir, "nested", "beans.db"),
		NodeID:       1,
		BcryptCost:   bcrypt.MinCost,
	}
}

func TestOpenBackend_LocalBackends(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{config.BackendMemory, config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			b, err := OpenBackend(ctx, testConfig(t, backend), zaptest.NewLogger(t))
			require.NoError(t, err)
			defer b.Close()
			require.NoError(t, b.Ready(ctx))

			data := models.NewData()
			data.Channels = append(data.Channels, &models.Channel{ChannelID: 1, Name: "general"})
			require.NoError(t, b.Repo.Save(ctx, data))
			got, err := b.Repo.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got.Channels, 1)
		})
	}
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := OpenBackend(context.Background(), testConfig(t, "tape"), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNewMailer(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	assert.IsType(t, &mail.LogMailer{}, NewMailer(cfg, zaptest.NewLogger(t)))
	cfg.SMTP.Host = "smtp.example.com"
	assert.IsType(t, &mail.SMTPMailer{}, NewMailer(cfg, zaptest.NewLogger(t)))
}

func TestApp_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendFile)
	logger := zaptest.NewLogger(t)

	a, err := New(ctx, cfg, logger)
	require.NoError(t, err)
	_, err = a.Service.Register(ctx, "alice@example.com", "password123", "Alice", "Smith")
	require.NoError(t, err)
	a.Close()

	b, err := New(ctx, cfg, logger)
	require.NoError(t, err)
	defer b.Close()
	users := b.Service.Registry().Users()
	require.Len(t, users, 1)
	assert.Equal(t, "alicesmith", users[0].HandleStr)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	b.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
