package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/franciscosanchezn/gin-tapas-api/internal/services"
	"github.com/gin-gonic/gin"
)

// DefaultMaxUploadBytes caps the multipart body of create and update requests
const DefaultMaxUploadBytes int64 = 10 << 20

// TapasController handles HTTP requests related to tapas
type TapasController interface {
	// ListTapas retrieves the tapas of a category
	ListTapas(c *gin.Context)
	// GetTapaByID retrieves a tapa by its ID
	GetTapaByID(c *gin.Context)
	// CreateTapa creates a new tapa
	CreateTapa(c *gin.Context)
	// UpdateTapa updates an existing tapa
	UpdateTapa(c *gin.Context)
	// DeleteTapa soft deletes a tapa by its ID
	DeleteTapa(c *gin.Context)
	// ReorderTapas persists a new order for a category
	ReorderTapas(c *gin.Context)
}

type controller struct {
	service        services.TapasService
	maxUploadBytes int64
}

// NewTapasController creates a new instance of TapasController
func NewTapasController(service services.TapasService, maxUploadBytes int64) *controller {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &controller{service: service, maxUploadBytes: maxUploadBytes}
}

type reorderRequest struct {
	Order []uint `json:"order" binding:"required"`
}

// ListTapas godoc
// @Summary List tapas of a category
// @Description Get the non-deleted tapas of a category ordered by sort_order
// @Tags tapas
// @Produce json
// @Param category path string true "Category" Enums(main, side)
// @Success 200 {object} models.Response{data=[]models.Tapa}
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /api/tapas/{category} [get]
func (c *controller) ListTapas(ctx *gin.Context) {
	category, err := models.ParseCategory(ctx.Param("category"))
	if err != nil {
		respondError(ctx, err, models.CodeTapaNotFound)
		return
	}

	tapas, err := c.service.ListTapas(ctx.Request.Context(), category)
	if err != nil {
		respondError(ctx, err, models.CodeTapaNotFound)
		return
	}
	respondOK(ctx, http.StatusOK, tapas)
}

// GetTapaByID godoc
// @Summary Get tapa by ID
// @Description Get a single non-deleted tapa by its ID
// @Tags tapas
// @Produce json
// @Param id path int true "Tapa ID"
// @Success 200 {object} models.Response{data=models.Tapa}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Security BearerAuth
// @Router /api/tapas/id/{id} [get]
func (c *controller) GetTapaByID(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	tapa, err := c.service.GetTapaByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, models.CodeTapaNotFound)
		return
	}
	respondOK(ctx, http.StatusOK, tapa)
}

// CreateTapa godoc
// @Summary Create a new tapa
// @Description Create a tapa at the end of its category, with an optional image
// @Tags tapas
// @Accept multipart/form-data
// @Produce json
// @Param data formData string true "JSON object {type,name,price,desc}"
// @Param image formData file false "Image file"
// @Success 201 {object} models.Response{data=models.Tapa}
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /api/tapas [post]
func (c *controller) CreateTapa(ctx *gin.Context) {
	form, ok := c.readTapaForm(ctx)
	if !ok {
		return
	}

	tapa, err := c.service.CreateTapa(ctx.Request.Context(), form.input, form.image)
	if err != nil {
		respondError(ctx, err, models.CodeTapaNotFound)
		return
	}
	respondOK(ctx, http.StatusCreated, tapa)
}

// UpdateTapa godoc
// @Summary Update a tapa
// @Description Replace the editable fields of a tapa; optionally replace or delete its image
// @Tags tapas
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Tapa ID"
// @Param data formData string true "JSON object {type,name,price,desc}"
// @Param image formData file false "New image file"
// @Param deleteImage formData boolean false "Remove the current image"
// @Success 200 {object} models.Response{data=models.Tapa}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /api/tapas/id/{id} [put]
func (c *controller) UpdateTapa(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	form, ok := c.readTapaForm(ctx)
	if !ok {
		return
	}

	tapa, err := c.service.UpdateTapa(ctx.Request.Context(), id, form.input, form.image, form.deleteImage)
	if err != nil {
		respondError(ctx, err, models.CodeTapaNotFound)
		return
	}
	respondOK(ctx, http.StatusOK, tapa)
}

// DeleteTapa godoc
// @Summary Delete a tapa
// @Description Soft delete a tapa by its ID; remaining ranks are not renumbered
// @Tags tapas
// @Produce json
// @Param id path int true "Tapa ID"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /api/tapas/id/{id} [delete]
func (c *controller) DeleteTapa(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.DeleteTapa(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err, models.CodeTapaNotFound)
		return
	}
	ctx.JSON(http.StatusOK, models.Response{Success: true})
}

// ReorderTapas godoc
// @Summary Reorder a category
// @Description Persist the full order of a category as sort_order 1..N in one transaction
// @Tags tapas
// @Accept json
// @Produce json
// @Param category path string true "Category" Enums(main, side)
// @Param order body object{order=[]int} true "Every tapa ID of the category in display order"
// @Success 200 {object} models.Response{data=[]models.Tapa}
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /api/tapas/{category}/order [put]
func (c *controller) ReorderTapas(ctx *gin.Context) {
	category, err := models.ParseCategory(ctx.Param("category"))
	if err != nil {
		respondError(ctx, err, models.CodeTapaNotFound)
		return
	}

	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, models.CodeInvalidOrder, "body must be {\"order\": [id, ...]}")
		return
	}

	tapas, err := c.service.Reorder(ctx.Request.Context(), category, req.Order)
	if err != nil {
		respondError(ctx, err, models.CodeTapaNotFound)
		return
	}
	respondOK(ctx, http.StatusOK, tapas)
}

type tapaForm struct {
	input       models.TapaInput
	image       *services.ImageUpload
	deleteImage bool
}

// readTapaForm parses the multipart body shared by create and update.
// It writes the 400 response itself and reports false when the body is unusable.
func (c *controller) readTapaForm(ctx *gin.Context) (tapaForm, bool) {
	var form tapaForm

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	if err := ctx.Request.ParseMultipartForm(c.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(ctx, models.CodeInvalidImage, "request body too large")
			return form, false
		}
		badRequest(ctx, models.CodeBadRequest, "multipart/form-data body required")
		return form, false
	}

	raw := ctx.Request.FormValue("data")
	if raw == "" {
		badRequest(ctx, models.CodeTapaInvalidData, "data field is required")
		return form, false
	}
	if err := json.Unmarshal([]byte(raw), &form.input); err != nil {
		badRequest(ctx, models.CodeTapaInvalidData, "data field must be a JSON object")
		return form, false
	}

	file, header, err := ctx.Request.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		badRequest(ctx, models.CodeInvalidImage, "image field is unreadable")
		return form, false
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			badRequest(ctx, models.CodeInvalidImage, "image field is unreadable")
			return form, false
		}
		form.image = &services.ImageUpload{Data: data, ContentType: header.Header.Get("Content-Type")}
	}

	if flag := ctx.Request.FormValue("deleteImage"); flag != "" {
		form.deleteImage, err = strconv.ParseBool(flag)
		if err != nil {
			badRequest(ctx, models.CodeBadRequest, "deleteImage must be a boolean")
			return form, false
		}
	}
	return form, true
}

// parseID reads the :id path parameter, answering 400 when it is not a positive integer
func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(ctx, models.CodeBadRequest, "Invalid tapa ID format")
		return 0, false
	}
	return uint(id), true
}
