package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/product-catalog/internal/domain"
	"github.com/spec-kit/product-catalog/internal/events"
	"github.com/spec-kit/product-catalog/internal/repository"
	apperrors "github.com/spec-kit/product-catalog/pkg/util"
)

// ProductInput describes the mutable product attributes.
type ProductInput struct {
	Name  string
	Value float64
}

// PageRequest describes a paged listing request. OrderBy is a SQL order
// fragment built from the handler's sort whitelist.
type PageRequest struct {
	Page    int
	Size    int
	OrderBy string
}

// ProductService coordinates catalog workflows.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// NewProductService constructs the service.
func NewProductService(products repository.ProductRepository, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, dispatcher: dispatcher}
}

func newProductNotFound() error {
	return apperrors.NewDomainError("NOT_FOUND", "This product was not found. Try again.", http.StatusNotFound, nil)
}

// CreateBatch persists every input item in order and returns the created
// records. Each item is persisted independently; there is no cross-item
// rollback. An empty input yields an empty result.
func (s *ProductService) CreateBatch(ctx context.Context, inputs []ProductInput) ([]domain.Product, error) {
	created := make([]domain.Product, 0, len(inputs))
	for _, input := range inputs {
		product := domain.Product{
			Name:  input.Name,
			Value: input.Value,
		}
		if err := s.products.Create(ctx, &product); err != nil {
			return nil, err
		}
		created = append(created, product)

		s.publish(ctx, events.EventProductCreated, product.ID, events.ProductChangedPayload{
			Name:  product.Name,
			Value: product.Value,
		})
	}
	return created, nil
}

// ListPage retrieves one sorted page plus the collection total.
func (s *ProductService) ListPage(ctx context.Context, req PageRequest) ([]domain.Product, int64, error) {
	offset := req.Page * req.Size
	return s.products.ListPage(ctx, offset, req.Size, req.OrderBy)
}

// Get fetches a single product by identifier.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, newProductNotFound()
		}
		return nil, err
	}
	return product, nil
}

// Update overwrites name and value on an existing product. The identifier is
// never touched.
func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, newProductNotFound()
		}
		return nil, err
	}

	product.Name = input.Name
	product.Value = input.Value
	if err := s.products.Update(ctx, product); err != nil {
		if err == pgx.ErrNoRows {
			return nil, newProductNotFound()
		}
		return nil, err
	}

	s.publish(ctx, events.EventProductUpdated, product.ID, events.ProductChangedPayload{
		Name:  product.Name,
		Value: product.Value,
	})
	return product, nil
}

// Delete removes a product by identifier.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return newProductNotFound()
		}
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return newProductNotFound()
		}
		return err
	}

	s.publish(ctx, events.EventProductDeleted, id, nil)
	return nil
}

func (s *ProductService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
