package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/franciscosanchezn/gin-tapas-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubImages struct {
	stored  int
	removed []string
}

func (s *stubImages) Store(ctx context.Context, data []byte, contentHint string) (string, error) {
	if string(data) == "not an image" {
		return "", models.NewValidationError("image", "unsupported content type text/plain")
	}
	s.stored++
	return fmt.Sprintf("http://localhost/uploads/tapas/%d.jpg", s.stored), nil
}

func (s *stubImages) Remove(ctx context.Context, ref string) {
	if ref != "" {
		s.removed = append(s.removed, ref)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func setupTapasRouter(t *testing.T) (*gin.Engine, services.TapasService, *stubImages) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Tapa{}))

	images := &stubImages{}
	service := services.NewTapasService(db, images)
	controller := NewTapasController(service, 1<<20)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/tapas")
	{
		api.POST("", controller.CreateTapa)
		api.GET("/:category", controller.ListTapas)
		api.PUT("/:category/order", controller.ReorderTapas)
		api.GET("/id/:id", controller.GetTapaByID)
		api.PUT("/id/:id", controller.UpdateTapa)
		api.DELETE("/id/:id", controller.DeleteTapa)
	}
	return router, service, images
}

func multipartRequest(t *testing.T, method, target string, data interface{}, image []byte, extra map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		require.NoError(t, writer.WriteField("data", string(raw)))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	for k, v := range extra {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(t *testing.T, router *gin.Engine, req *http.Request) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

func createViaAPI(t *testing.T, router *gin.Engine, category, name string) models.Tapa {
	t.Helper()
	status, env := serve(t, router, multipartRequest(t, http.MethodPost, "/api/tapas",
		map[string]interface{}{"type": category, "name": name, "price": 1000, "desc": "d"}, nil, nil))
	require.Equal(t, http.StatusCreated, status)
	var tapa models.Tapa
	require.NoError(t, json.Unmarshal(env.Data, &tapa))
	return tapa
}

func TestCreateTapaEndpoint(t *testing.T) {
	router, _, _ := setupTapasRouter(t)

	t.Run("creates with image", func(t *testing.T) {
		status, env := serve(t, router, multipartRequest(t, http.MethodPost, "/api/tapas",
			map[string]interface{}{"type": "side", "name": "X", "price": 1000, "desc": "", "img": "ignored"}, []byte("png"), nil))
		assert.Equal(t, http.StatusCreated, status)
		assert.True(t, env.Success)

		var tapa models.Tapa
		require.NoError(t, json.Unmarshal(env.Data, &tapa))
		assert.Equal(t, 1, tapa.SortOrder)
		assert.Equal(t, models.CategorySide, tapa.Category)
		assert.Equal(t, "http://localhost/uploads/tapas/1.jpg", tapa.Image)
	})

	testCases := []struct {
		name     string
		req      func() *http.Request
		wantCode string
	}{
		{
			name:     "missing data field",
			req:      func() *http.Request { return multipartRequest(t, http.MethodPost, "/api/tapas", nil, nil, nil) },
			wantCode: models.CodeTapaInvalidData,
		},
		{
			name: "data is not json",
			req: func() *http.Request {
				return multipartRequest(t, http.MethodPost, "/api/tapas", nil, nil, map[string]string{"data": "{broken"})
			},
			wantCode: models.CodeTapaInvalidData,
		},
		{
			name: "invalid fields",
			req: func() *http.Request {
				return multipartRequest(t, http.MethodPost, "/api/tapas", map[string]interface{}{"type": "main", "price": -1}, nil, nil)
			},
			wantCode: models.CodeValidation,
		},
		{
			name: "not an image",
			req: func() *http.Request {
				return multipartRequest(t, http.MethodPost, "/api/tapas",
					map[string]interface{}{"type": "main", "name": "A"}, []byte("not an image"), nil)
			},
			wantCode: models.CodeValidation,
		},
		{
			name:     "json body instead of multipart",
			req:      func() *http.Request { return jsonRequest(t, http.MethodPost, "/api/tapas", map[string]string{"name": "A"}) },
			wantCode: models.CodeBadRequest,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			status, env := serve(t, router, tt.req())
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestListAndGetEndpoints(t *testing.T) {
	router, _, _ := setupTapasRouter(t)
	a := createViaAPI(t, router, "main", "A")
	createViaAPI(t, router, "main", "B")
	createViaAPI(t, router, "side", "S")

	status, env := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/tapas/main", nil))
	require.Equal(t, http.StatusOK, status)
	var tapas []models.Tapa
	require.NoError(t, json.Unmarshal(env.Data, &tapas))
	require.Len(t, tapas, 2)
	assert.Equal(t, "A", tapas[0].Name)
	assert.Equal(t, "B", tapas[1].Name)

	status, env = serve(t, router, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/tapas/id/%d", a.ID), nil))
	require.Equal(t, http.StatusOK, status)
	var got models.Tapa
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, a.ID, got.ID)

	status, env = serve(t, router, httptest.NewRequest(http.MethodGet, "/api/tapas/id/9999", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeTapaNotFound, env.Code)

	status, _ = serve(t, router, httptest.NewRequest(http.MethodGet, "/api/tapas/id/abc", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = serve(t, router, httptest.NewRequest(http.MethodGet, "/api/tapas/dessert", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = serve(t, router, httptest.NewRequest(http.MethodGet, "/api/tapas/side", nil))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &tapas))
	assert.Len(t, tapas, 1)
}

func TestListEmptyCategoryReturnsArray(t *testing.T) {
	router, _, _ := setupTapasRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tapas/side", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestUpdateTapaEndpoint(t *testing.T) {
	router, _, images := setupTapasRouter(t)
	status, env := serve(t, router, multipartRequest(t, http.MethodPost, "/api/tapas",
		map[string]interface{}{"type": "main", "name": "A", "price": 1000}, []byte("png"), nil))
	require.Equal(t, http.StatusCreated, status)
	var created models.Tapa
	require.NoError(t, json.Unmarshal(env.Data, &created))
	target := fmt.Sprintf("/api/tapas/id/%d", created.ID)

	status, env = serve(t, router, multipartRequest(t, http.MethodPut, target,
		map[string]interface{}{"type": "main", "name": "A2", "price": 1500, "desc": "new"}, nil, map[string]string{"deleteImage": "true"}))
	require.Equal(t, http.StatusOK, status)
	var updated models.Tapa
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, 1500, updated.Price)
	assert.Empty(t, updated.Image)
	assert.Equal(t, []string{created.Image}, images.removed)

	status, env = serve(t, router, multipartRequest(t, http.MethodPut, target,
		map[string]interface{}{"type": "main", "name": "A3"}, nil, map[string]string{"deleteImage": "maybe"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeBadRequest, env.Code)

	status, _ = serve(t, router, multipartRequest(t, http.MethodPut, "/api/tapas/id/9999",
		map[string]interface{}{"type": "main", "name": "A"}, nil, nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteTapaEndpoint(t *testing.T) {
	router, _, _ := setupTapasRouter(t)
	a := createViaAPI(t, router, "main", "A")
	target := fmt.Sprintf("/api/tapas/id/%d", a.ID)

	status, env := serve(t, router, httptest.NewRequest(http.MethodDelete, target, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, _ = serve(t, router, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = serve(t, router, httptest.NewRequest(http.MethodDelete, target, nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReorderEndpoint(t *testing.T) {
	router, service, _ := setupTapasRouter(t)
	a := createViaAPI(t, router, "main", "A")
	b := createViaAPI(t, router, "main", "B")
	c := createViaAPI(t, router, "main", "C")

	status, env := serve(t, router, jsonRequest(t, http.MethodPut, "/api/tapas/main/order",
		map[string]interface{}{"order": []uint{c.ID, a.ID, b.ID}}))
	require.Equal(t, http.StatusOK, status)
	var tapas []models.Tapa
	require.NoError(t, json.Unmarshal(env.Data, &tapas))
	require.Len(t, tapas, 3)
	for i, want := range []string{"C", "A", "B"} {
		assert.Equal(t, want, tapas[i].Name)
		assert.Equal(t, i+1, tapas[i].SortOrder)
	}

	testCases := []struct {
		name     string
		target   string
		body     interface{}
		wantCode string
	}{
		{name: "empty order", target: "/api/tapas/main/order", body: map[string]interface{}{"order": []uint{}}, wantCode: models.CodeValidation},
		{name: "missing order", target: "/api/tapas/main/order", body: map[string]interface{}{}, wantCode: models.CodeInvalidOrder},
		{name: "partial order", target: "/api/tapas/main/order", body: map[string]interface{}{"order": []uint{a.ID}}, wantCode: models.CodeValidation},
		{name: "wrong element type", target: "/api/tapas/main/order", body: map[string]interface{}{"order": []string{"x"}}, wantCode: models.CodeInvalidOrder},
		{name: "unknown category", target: "/api/tapas/dessert/order", body: map[string]interface{}{"order": []uint{a.ID}}, wantCode: models.CodeValidation},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			status, env := serve(t, router, jsonRequest(t, http.MethodPut, tt.target, tt.body))
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.wantCode, env.Code)

			listed, err := service.ListTapas(context.Background(), models.CategoryMain)
			require.NoError(t, err)
			assert.Equal(t, "C", listed[0].Name, "order must be unchanged")
		})
	}
}
