package transport

import (
	"time"

	"github.com/hortti/inventory/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// UpdateProductRequest carries a partial patch; nil means "not supplied".
type UpdateProductRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Price    *string `json:"price"`
}

func (r UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Category == nil && r.Price == nil
}

type ProductResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceCents int64     `json:"priceCents"`
	ImageURL   *string   `json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToProductResponse renders image_path into an absolute URL under the
// upload root, or null when the product has no image.
func ToProductResponse(p *models.Product, baseURL, uploadDir string) ProductResponse {
	var imageURL *string
	if p.ImagePath != "" {
		u := baseURL + "/" + uploadDir + "/" + p.ImagePath
		imageURL = &u
	}

	return ProductResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		Category:   p.Category,
		PriceCents: p.PriceCents,
		ImageURL:   imageURL,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func ToProductResponses(items []models.Product, baseURL, uploadDir string) []ProductResponse {
	out := make([]ProductResponse, len(items))
	for i := range items {
		out[i] = ToProductResponse(&items[i], baseURL, uploadDir)
	}
	return out
}
