package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpx "github.com/yungbote/maiopinion/internal/http"
	"github.com/yungbote/maiopinion/internal/platform/logger"
	"github.com/yungbote/maiopinion/internal/platform/openai"
	"github.com/yungbote/maiopinion/internal/reminders"
)

func clearProviderEnv(t *testing.T) {
	for _, k := range []string{"GITHUB_TOKEN", "AZURE_OPENAI_KEY", "AZURE_OPENAI_ENDPOINT", "OPENAI_API_KEY", "SENDGRID_API_KEY", "REDIS_ADDR", "STORE_DRIVER"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearProviderEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, 16, cfg.MaxUploadMB)
	assert.Equal(t, "patients_db.csv", cfg.PatientDBPath)
	assert.Equal(t, 5*time.Minute, cfg.ReminderLockTTL)
	assert.Zero(t, cfg.ReminderInterval)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Origins())
	assert.Equal(t, openai.ProviderNone, openai.ResolveProvider(cfg.ProviderEnv()).Kind)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearProviderEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HTTP_ADDR=:8080\nGITHUB_TOKEN=ghp_file\nREMINDER_INTERVAL=1h\n"), 0o600))
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.ReminderInterval)

	p := openai.ResolveProvider(cfg.ProviderEnv())
	assert.Equal(t, openai.ProviderGitHub, p.Kind)
	assert.Equal(t, 30*time.Second, p.Timeout)
}

func TestLoadConfigRejectsBadDriver(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := LoadConfig("")
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestNewWiresFallbackApp(t *testing.T) {
	clearProviderEnv(t)
	gin.SetMode(gin.TestMode)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.PatientDBPath = filepath.Join(t.TempDir(), "patients_db.csv")

	a, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Provider.Enabled())
	lock, err := a.ScanLock(t.Context())
	require.NoError(t, err)
	assert.IsType(t, reminders.NopLock{}, lock)

	r := httpx.NewRouter(a.RouterConfig())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":0,"sent":0,"pending":0,"overdue":0,"upcoming":0}`, rec.Body.String())
}
