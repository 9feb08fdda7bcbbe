package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-tapas-api/internal/config"
	"github.com/franciscosanchezn/gin-tapas-api/internal/database"
	"github.com/franciscosanchezn/gin-tapas-api/internal/images"
	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "admin-password"

func setupTestServer(t *testing.T, overrides ...func(*config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := &config.Config{
		Host:             "localhost",
		Port:             8080,
		FrontendURL:      "http://localhost:3000",
		AuthPassword:     testPassword,
		AuthSecretKey:    "test-jwt-secret-key-32-characters",
		AuthTokenTTL:     time.Hour,
		ImageMaxBytes:    1 << 20,
		ImageMaxWidth:    64,
		ImageJPEGQuality: 80,
	}
	for _, override := range overrides {
		override(conf)
	}

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	store, err := images.NewLocalStore(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	transfer := images.NewTransfer(store, images.Options{MaxWidth: conf.ImageMaxWidth, JPEGQuality: conf.ImageJPEGQuality})

	return setupRouter(newApplication(conf, db, transfer, store.Root()))
}

func login(t *testing.T, router *gin.Engine) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"password":"`+testPassword+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func createTapa(t *testing.T, router *gin.Engine, token string, data map[string]interface{}, withImage bool) models.Tapa {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("data", string(raw)))
	if withImage {
		img := image.NewRGBA(image.Rect(0, 0, 128, 32))
		for x := 0; x < 128; x++ {
			img.Set(x, 0, color.RGBA{R: 200, A: 255})
		}
		part, err := writer.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		require.NoError(t, png.Encode(part, img))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tapas", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data models.Tapa `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestHealth(t *testing.T) {
	router := setupTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestTapasRoutesRequireSession(t *testing.T) {
	router := setupTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tapas/main", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/tapas/main", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMenuWorkflow(t *testing.T) {
	router := setupTestServer(t)
	token := login(t, router)

	a := createTapa(t, router, token, map[string]interface{}{"type": "main", "name": "A", "price": 500}, true)
	b := createTapa(t, router, token, map[string]interface{}{"type": "main", "name": "B", "price": 600}, false)
	c := createTapa(t, router, token, map[string]interface{}{"type": "main", "name": "C", "price": 700}, false)
	s := createTapa(t, router, token, map[string]interface{}{"type": "side", "name": "S", "price": 300}, false)
	assert.Equal(t, []int{1, 2, 3}, []int{a.SortOrder, b.SortOrder, c.SortOrder})
	assert.Equal(t, 1, s.SortOrder)

	// The uploaded image is transcoded and served by the local store
	require.NotEmpty(t, a.Image)
	imageURL, err := url.Parse(a.Image)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, imageURL.Path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	decoded, format, err := image.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, decoded.Bounds().Dx())

	// Reorder through the session cookie instead of the bearer header
	req := httptest.NewRequest(http.MethodPut, "/api/tapas/main/order",
		bytes.NewBufferString(fmt.Sprintf(`{"order":[%d,%d,%d]}`, c.ID, a.ID, b.ID)))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: token})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var listed struct {
		Data []models.Tapa `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 3)
	for i, want := range []uint{c.ID, a.ID, b.ID} {
		assert.Equal(t, want, listed.Data[i].ID)
		assert.Equal(t, i+1, listed.Data[i].SortOrder)
	}

	// A soft-deleted tapa disappears from reads
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/tapas/id/%d", a.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/tapas/main", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 2)
	assert.Equal(t, c.ID, listed.Data[0].ID)
	assert.Equal(t, b.ID, listed.Data[1].ID)
}

func TestCORSAllowsFrontendWithCredentials(t *testing.T) {
	router := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/tapas/main", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func failedLogin(router *gin.Engine, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestLoginThrottleIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	router := setupTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, failedLogin(router, "203.0.113.7:5000", "10.0.0.1"))
	for i := 2; i <= 5; i++ {
		status := failedLogin(router, "203.0.113.7:5000", fmt.Sprintf("10.0.0.%d", i))
		assert.Equal(t, http.StatusTooManyRequests, status, "rotating X-Forwarded-For must not reset the cooldown")
	}
}

func TestLoginThrottleUsesForwardedForFromTrustedProxy(t *testing.T) {
	router := setupTestServer(t, func(conf *config.Config) {
		conf.TrustedProxies = []string{"192.0.2.1"}
	})

	assert.Equal(t, http.StatusUnauthorized, failedLogin(router, "192.0.2.1:5000", "198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, failedLogin(router, "192.0.2.1:5000", "198.51.100.1"))
	assert.Equal(t, http.StatusUnauthorized, failedLogin(router, "192.0.2.1:5000", "198.51.100.2"),
		"clients behind a trusted proxy are throttled separately")
}

func TestApplyLogLevel(t *testing.T) {
	original := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(original) })

	t.Setenv("APP_ENV", "production")
	applyLogLevel("")
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel(), "unset LOG_LEVEL follows APP_ENV")

	applyLogLevel("debug")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel(), "LOG_LEVEL overrides APP_ENV")
}
