package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/product-catalog/internal/api/dto"
	"github.com/spec-kit/product-catalog/internal/service"
	apperrors "github.com/spec-kit/product-catalog/pkg/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// sortColumns whitelists sortable fields and their backing columns.
var sortColumns = map[string]string{
	"name":       "name",
	"value":      "value",
	"created_at": "created_at",
}

// ProductsHandler manages catalog endpoints.
type ProductsHandler struct {
	service *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{service: productService}
}

// Create POST /products. Accepts a batch of items and returns the created
// records in input order.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var reqs []dto.ProductRequest
	if err := c.BodyParser(&reqs); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	inputs := make([]service.ProductInput, 0, len(reqs))
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return err
		}
		inputs = append(inputs, service.ProductInput{Name: req.Name, Value: *req.Value})
	}

	created, err := h.service.CreateBatch(c.Context(), inputs)
	if err != nil {
		return err
	}

	responses := make([]dto.ProductResponse, 0, len(created))
	for i := range created {
		responses = append(responses, dto.NewProductResponse(&created[i]))
	}
	return c.Status(http.StatusCreated).JSON(responses)
}

// List GET /products. Responds 204 when the requested page holds no items.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	req, rawSort, err := parsePageQuery(c)
	if err != nil {
		return err
	}

	products, total, err := h.service.ListPage(c.Context(), req)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return c.SendStatus(http.StatusNoContent)
	}

	content := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp := dto.NewProductResponse(&products[i])
		resp.Links = []dto.Link{dto.ProductSelfLink(products[i].ID)}
		content = append(content, resp)
	}

	prev := req.Page - 1
	if prev < 0 {
		prev = 0
	}
	totalPages := int((total + int64(req.Size) - 1) / int64(req.Size))

	return c.JSON(dto.PageResponse{
		Content: content,
		Page: dto.PageMeta{
			Number:        req.Page,
			Size:          req.Size,
			TotalElements: total,
			TotalPages:    totalPages,
		},
		Links: []dto.Link{
			dto.ProductsPageLink("next", req.Page+1, req.Size, rawSort),
			dto.ProductsPageLink("prev", prev, req.Size, rawSort),
		},
	})
}

// GetOne GET /products/:id.
func (h *ProductsHandler) GetOne(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	product, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}

	resp := dto.NewProductResponse(product)
	resp.Links = []dto.Link{
		dto.ProductSelfLink(product.ID),
		dto.ProductsCollectionLink(),
	}
	return c.JSON(resp)
}

// Update PUT /products/:id. Overwrites name and value; the identifier never
// changes.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	product, err := h.service.Update(c.Context(), id, service.ProductInput{Name: req.Name, Value: *req.Value})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Delete DELETE /products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendString("Product deleted successfully.")
}

func parseProductID(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", apperrors.NewValidationError("invalid product id", map[string]any{"id": c.Params("id")})
	}
	return id.String(), nil
}

func parsePageQuery(c *fiber.Ctx) (service.PageRequest, string, error) {
	page, err := parseNonNegative(c.Query("page"), 0)
	if err != nil {
		return service.PageRequest{}, "", apperrors.NewValidationError("invalid page", nil)
	}

	size, err := parseNonNegative(c.Query("size"), defaultPageSize)
	if err != nil || size == 0 {
		return service.PageRequest{}, "", apperrors.NewValidationError("invalid size", nil)
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	rawSort := c.Query("sort")
	orderBy, err := parseSort(rawSort)
	if err != nil {
		return service.PageRequest{}, "", err
	}

	return service.PageRequest{Page: page, Size: size, OrderBy: orderBy}, rawSort, nil
}

func parseNonNegative(val string, def int) (int, error) {
	if val == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return 0, apperrors.NewValidationError("invalid paging parameter", nil)
	}
	return parsed, nil
}

// parseSort maps a "field[,asc|desc]" query value onto a whitelisted SQL
// order fragment. The default keeps page order stable across requests.
func parseSort(raw string) (string, error) {
	if raw == "" {
		return "created_at ASC", nil
	}

	parts := strings.SplitN(raw, ",", 2)
	column, ok := sortColumns[strings.TrimSpace(parts[0])]
	if !ok {
		return "", apperrors.NewValidationError("unsupported sort field", map[string]any{"sort": raw})
	}

	direction := "ASC"
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "asc", "":
		case "desc":
			direction = "DESC"
		default:
			return "", apperrors.NewValidationError("unsupported sort direction", map[string]any{"sort": raw})
		}
	}
	return column + " " + direction, nil
}
