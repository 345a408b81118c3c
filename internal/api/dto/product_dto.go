package dto

import (
	"strings"

	"github.com/spec-kit/product-catalog/internal/domain"
	apperrors "github.com/spec-kit/product-catalog/pkg/util"
)

// ProductRequest payload for create and update operations. Value is a pointer
// so a missing field can be told apart from an explicit zero.
type ProductRequest struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// Validate checks required product fields.
func (r ProductRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.NewValidationError("name required", map[string]any{"field": "name"})
	}
	if r.Value == nil {
		return apperrors.NewValidationError("value required", map[string]any{"field": "value"})
	}
	return nil
}

// ProductResponse is the wire shape of a product. Links are attached on read
// responses only.
type ProductResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Links []Link  `json:"links,omitempty"`
}

// NewProductResponse maps a domain product without links.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:    product.ID,
		Name:  product.Name,
		Value: product.Value,
	}
}

// PageMeta carries cursor metadata for a product page.
type PageMeta struct {
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// PageResponse is one sorted slice of products plus navigation links.
type PageResponse struct {
	Content []ProductResponse `json:"content"`
	Page    PageMeta          `json:"page"`
	Links   []Link            `json:"links"`
}
