package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hortti/inventory/internal/events"
	"github.com/hortti/inventory/internal/models"
	"github.com/hortti/inventory/internal/repo"
	"github.com/hortti/inventory/internal/storage"
	"github.com/hortti/inventory/internal/transport"
	"github.com/hortti/inventory/pkg/logging"
)

type ProductService struct {
	Repo   *repo.GormRepo
	Store  *storage.Store
	Events *events.Producer
}

type CreateProductInput struct {
	Name     string
	Category string
	Price    string
	// ImagePath is the already-stored relative path, empty when no image
	// was uploaded.
	ImagePath string
}

func (s *ProductService) List(ctx context.Context, query, sort, order string) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ListParams{Query: query, Sort: sort, Order: order})
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prod, nil
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !models.ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: invalid category %q", ErrValidation, in.Category)
	}
	cents, err := ParsePriceToCents(in.Price)
	if err != nil {
		return nil, err
	}

	prod := &models.Product{
		Name:       name,
		Category:   in.Category,
		PriceCents: cents,
		ImagePath:  in.ImagePath,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, prod.ID, map[string]any{
		"type":      "product_created",
		"productID": prod.ID.String(),
		"name":      prod.Name,
	})
	return prod, nil
}

// Update applies a partial patch; each supplied field is validated with the
// create rules and an empty patch is a validation error.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (*models.Product, error) {
	if req.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	var patch repo.ProductPatch

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		patch.Name = &name
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return nil, fmt.Errorf("%w: invalid category %q", ErrValidation, *req.Category)
		}
		patch.Category = req.Category
	}
	if req.Price != nil {
		cents, err := ParsePriceToCents(*req.Price)
		if err != nil {
			return nil, err
		}
		patch.PriceCents = &cents
	}

	prod, err := s.Repo.PatchProduct(ctx, id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patch product: %w", err)
	}

	s.publish(ctx, prod.ID, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID.String(),
		"name":      prod.Name,
	})
	return prod, nil
}

// ReplaceImage swaps the stored image pointer transactionally; the previous
// file is removed only after the transaction commits, so a row never
// references a deleted file.
func (s *ProductService) ReplaceImage(ctx context.Context, id uuid.UUID, newPath string) (*models.Product, error) {
	prod, oldPath, err := s.Repo.ReplaceProductImage(ctx, id, newPath)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The new file was stored before we knew the row was gone.
			s.removeFileAsync(ctx, newPath)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("replace image: %w", err)
	}

	if oldPath != "" && oldPath != newPath {
		s.removeFileAsync(ctx, oldPath)
	}

	s.publish(ctx, prod.ID, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID.String(),
		"name":      prod.Name,
	})
	return prod, nil
}

// Remove deletes the row, then cleans up the image file best-effort. A
// missing row returns (false, nil) so the handler can answer 404.
func (s *ProductService) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	imagePath, found, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	if !found {
		return false, nil
	}

	if imagePath != "" {
		s.removeFileAsync(ctx, imagePath)
	}

	s.publish(ctx, id, map[string]any{
		"type":      "product_deleted",
		"productID": id.String(),
	})
	return true, nil
}

// removeFileAsync is fire-and-forget: the row no longer references the
// file, so a failed unlink only leaves an orphan worth a log line.
func (s *ProductService) removeFileAsync(ctx context.Context, rel string) {
	l := logging.FromContext(ctx)
	go func() {
		if err := s.Store.Remove(rel); err != nil {
			l.Warn("image cleanup failed", "path", rel, "error", err)
		}
	}()
}

func (s *ProductService) publish(ctx context.Context, id uuid.UUID, event map[string]any) {
	if s.Events == nil {
		return
	}
	l := logging.FromContext(ctx)
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	go func() {
		defer cancel()
		if err := s.Events.Publish(pubCtx, id.String(), event); err != nil {
			l.Warn("kafka publish failed", "type", event["type"], "error", err)
		}
	}()
}
