package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the services logger with the application level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// ImageUpload holds the raw bytes of an uploaded image
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// ImageTransfer stores uploaded images and removes replaced ones
type ImageTransfer interface {
	// Store persists the image and returns its public reference
	Store(ctx context.Context, data []byte, contentHint string) (string, error)
	// Remove deletes a previously stored image, logging failures instead of returning them
	Remove(ctx context.Context, ref string)
}

// TapasService provides methods to interact with the tapas table
type TapasService interface {
	// ListTapas retrieves the non-deleted tapas of a category ordered by rank
	ListTapas(ctx context.Context, category models.Category) ([]models.Tapa, error)
	// GetTapaByID retrieves a non-deleted tapa by its ID
	GetTapaByID(ctx context.Context, id uint) (models.Tapa, error)
	// CreateTapa appends a new tapa at the end of its category
	CreateTapa(ctx context.Context, input models.TapaInput, image *ImageUpload) (models.Tapa, error)
	// UpdateTapa replaces the editable fields of a tapa
	UpdateTapa(ctx context.Context, id uint, input models.TapaInput, image *ImageUpload, deleteImage bool) (models.Tapa, error)
	// DeleteTapa soft deletes a tapa
	DeleteTapa(ctx context.Context, id uint) error
	// Reorder rewrites the ranks of a category to 1..N following ids
	Reorder(ctx context.Context, category models.Category, ids []uint) ([]models.Tapa, error)
}

// tapasService is the implementation of the TapasService interface
type tapasService struct {
	db     *gorm.DB
	images ImageTransfer
}

// NewTapasService creates a new instance of TapasService
func NewTapasService(db *gorm.DB, images ImageTransfer) TapasService {
	return &tapasService{db: db, images: images}
}

func (s *tapasService) ListTapas(ctx context.Context, category models.Category) ([]models.Tapa, error) {
	if !category.Valid() {
		return nil, models.NewValidationError("type", "must be one of: main, side")
	}
	tapas := make([]models.Tapa, 0)
	err := s.db.WithContext(ctx).
		Where("type = ?", category).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&tapas).Error
	if err != nil {
		return nil, models.StorageError("list tapas", err)
	}
	return tapas, nil
}

func (s *tapasService) GetTapaByID(ctx context.Context, id uint) (models.Tapa, error) {
	return findTapa(s.db.WithContext(ctx), id)
}

func (s *tapasService) CreateTapa(ctx context.Context, input models.TapaInput, image *ImageUpload) (models.Tapa, error) {
	if err := input.Validate(); err != nil {
		return models.Tapa{}, err
	}

	tapa := models.Tapa{
		Category:    input.Category,
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
	}

	ref, err := s.storeImage(ctx, image)
	if err != nil {
		return models.Tapa{}, err
	}
	tapa.Image = ref

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rank, err := nextRank(tx, tapa.Category)
		if err != nil {
			return err
		}
		tapa.SortOrder = rank
		if err := tx.Create(&tapa).Error; err != nil {
			return models.StorageError("insert tapa", err)
		}
		return nil
	})
	if err != nil {
		// The row was never written, so the uploaded object has no owner.
		s.images.Remove(ctx, tapa.Image)
		return models.Tapa{}, err
	}

	log.WithFields(logrus.Fields{
		"tapa_id":    tapa.ID,
		"type":       tapa.Category,
		"sort_order": tapa.SortOrder,
	}).Info("Tapa created")
	return tapa, nil
}

func (s *tapasService) UpdateTapa(ctx context.Context, id uint, input models.TapaInput, image *ImageUpload, deleteImage bool) (models.Tapa, error) {
	if err := input.Validate(); err != nil {
		return models.Tapa{}, err
	}

	existing, err := s.GetTapaByID(ctx, id)
	if err != nil {
		return models.Tapa{}, err
	}

	stored, err := s.storeImage(ctx, image)
	if err != nil {
		return models.Tapa{}, err
	}

	imageRef := existing.Image
	var replaced string
	switch {
	case stored != "":
		imageRef = stored
		replaced = existing.Image
	case deleteImage:
		imageRef = ""
		replaced = existing.Image
	}

	var updated models.Tapa
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"type":        input.Category,
			"name":        input.Name,
			"price":       input.Price,
			"description": input.Description,
			"image":       imageRef,
		}
		if input.Category != existing.Category {
			rank, err := nextRank(tx, input.Category)
			if err != nil {
				return err
			}
			fields["sort_order"] = rank
		}

		res := tx.Model(&models.Tapa{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return models.StorageError("update tapa", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("tapa %d: %w", id, models.ErrNotFound)
		}

		updated, err = findTapa(tx, id)
		return err
	})
	if err != nil {
		s.images.Remove(ctx, stored)
		return models.Tapa{}, err
	}

	if replaced != "" && replaced != imageRef {
		s.images.Remove(ctx, replaced)
	}
	return updated, nil
}

func (s *tapasService) DeleteTapa(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Tapa{}, id)
	if res.Error != nil {
		return models.StorageError("delete tapa", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tapa %d: %w", id, models.ErrNotFound)
	}
	// Remaining ranks are left as they are; the next reorder closes the gap.
	log.WithField("tapa_id", id).Info("Tapa soft deleted")
	return nil
}

func (s *tapasService) Reorder(ctx context.Context, category models.Category, ids []uint) ([]models.Tapa, error) {
	if !category.Valid() {
		return nil, models.NewValidationError("type", "must be one of: main, side")
	}
	if len(ids) == 0 {
		return nil, models.NewValidationError("order", "must contain at least one id")
	}
	requested := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := requested[id]; dup {
			return nil, models.NewValidationError("order", fmt.Sprintf("id %d appears more than once", id))
		}
		requested[id] = struct{}{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []uint
		if err := tx.Model(&models.Tapa{}).Where("type = ?", category).Pluck("id", &current).Error; err != nil {
			return models.StorageError("load category ids", err)
		}
		if err := matchesCategory(requested, current); err != nil {
			return err
		}

		for i, id := range ids {
			res := tx.Model(&models.Tapa{}).
				Where("id = ? AND type = ?", id, category).
				Update("sort_order", i+1)
			if res.Error != nil {
				return models.StorageError(fmt.Sprintf("set rank of tapa %d", id), res.Error)
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"type":  category,
			"count": len(ids),
		}).Warn("Reorder rolled back")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"type":  category,
		"count": len(ids),
	}).Info("Tapas reordered")
	return s.ListTapas(ctx, category)
}

// storeImage uploads image when present. A storage failure is logged and yields
// an empty reference so the metadata write still goes through; only a rejected
// upload is returned as an error.
func (s *tapasService) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}
	ref, err := s.images.Store(ctx, image.Data, image.ContentType)
	if err != nil {
		if errors.Is(err, models.ErrStorage) {
			log.WithError(err).Warn("Image upload failed, saving tapa without the new image")
			return "", nil
		}
		return "", err
	}
	return ref, nil
}

// findTapa loads a non-deleted tapa, translating a missing row into ErrNotFound
func findTapa(db *gorm.DB, id uint) (models.Tapa, error) {
	var tapa models.Tapa
	if err := db.First(&tapa, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tapa{}, fmt.Errorf("tapa %d: %w", id, models.ErrNotFound)
		}
		return models.Tapa{}, models.StorageError("get tapa", err)
	}
	return tapa, nil
}

// nextRank returns the rank that appends an item to the end of category.
// The live rows of the category are locked first so concurrent appends in one
// category serialize on postgres and mysql; sqlite already serializes writers.
func nextRank(tx *gorm.DB, category models.Category) (int, error) {
	var locked []uint
	err := tx.Model(&models.Tapa{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("type = ?", category).
		Pluck("id", &locked).Error
	if err != nil {
		return 0, models.StorageError("lock category", err)
	}

	var maxRank int
	err = tx.Model(&models.Tapa{}).
		Where("type = ?", category).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxRank).Error
	if err != nil {
		return 0, models.StorageError("compute next rank", err)
	}
	return maxRank + 1, nil
}

// matchesCategory requires the submitted ids to be exactly the live ids of the category
func matchesCategory(requested map[uint]struct{}, current []uint) error {
	if len(requested) != len(current) {
		return models.NewValidationError("order",
			fmt.Sprintf("expected %d ids for this category, got %d", len(current), len(requested)))
	}
	for _, id := range current {
		if _, ok := requested[id]; !ok {
			return models.NewValidationError("order", fmt.Sprintf("id %d is missing", id))
		}
	}
	return nil
}
