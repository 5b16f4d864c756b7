package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hortti/inventory/internal/models"
)

// listLimit caps the result set as a denial-of-service guard; there is no
// pagination.
const listLimit = 1000

type ListParams struct {
	Query string
	Sort  string // "name" (default) or "price"
	Order string // "asc" (default) or "desc"
}

func (r *GormRepo) ListProducts(ctx context.Context, p ListParams) ([]models.Product, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Product{})

	if q := strings.TrimSpace(p.Query); q != "" {
		tx = tx.Where("LOWER(name) LIKE LOWER(?)", "%"+q+"%")
	}

	sortCol := "LOWER(name)"
	if p.Sort == "price" {
		sortCol = "price_cents"
	}
	dir := "ASC"
	if p.Order == "desc" {
		dir = "DESC"
	}

	// created_at DESC keeps tie ordering deterministic.
	items := make([]models.Product, 0, 16)
	err := tx.
		Order(sortCol + " " + dir).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// ProductPatch carries already-validated field updates; nil means keep.
type ProductPatch struct {
	Name       *string
	Category   *string
	PriceCents *int64
}

func (r *GormRepo) PatchProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&prod, "id = ?", id).Error; err != nil {
			return err
		}

		if patch.Name != nil {
			prod.Name = *patch.Name
		}
		if patch.Category != nil {
			prod.Category = *patch.Category
		}
		if patch.PriceCents != nil {
			prod.PriceCents = *patch.PriceCents
		}

		// Save refreshes updated_at even when values are unchanged.
		return tx.Save(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// ReplaceProductImage swaps the image pointer under a row lock and returns
// the previous path so the caller can delete the file after commit.
func (r *GormRepo) ReplaceProductImage(ctx context.Context, id uuid.UUID, newPath string) (*models.Product, string, error) {
	var (
		prod    models.Product
		oldPath string
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&prod, "id = ?", id).Error; err != nil {
			return err
		}
		oldPath = prod.ImagePath
		prod.ImagePath = newPath
		return tx.Save(&prod).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &prod, oldPath, nil
}

// DeleteProduct removes the row under a lock and returns its image path.
// A missing row is not an error: found is false and nothing is deleted.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) (imagePath string, found bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := lockForUpdate(tx).First(&prod, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		found = true
		imagePath = prod.ImagePath
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if err != nil {
		return "", false, err
	}
	return imagePath, found, nil
}
