package catalog

import (
	"context"

	"github.com/agencyos/backend/internal/domain/catalog"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService manages the agency's service catalog.
type ProductService struct {
	productRepo catalog.ProductRepository
}

func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// mutate loads a product, applies fn, and persists the result. All
// single-product write operations funnel through here.
func (s *ProductService) mutate(ctx context.Context, productID uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := fn(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// applyPrices merges partial price input over the product's current
// prices. A nil pointer means "leave that price alone".
func applyPrices(product *catalog.Product, monthly, onetime *decimal.Decimal) error {
	if monthly == nil && onetime == nil {
		return nil
	}
	newMonthly, newOnetime := product.MonthlyPrice, product.OnetimePrice
	if monthly != nil {
		newMonthly = *monthly
	}
	if onetime != nil {
		newOnetime = *onetime
	}
	return product.SetPrices(valueobject.NewMoneyUSD(newMonthly), valueobject.NewMoneyUSD(newOnetime))
}

// Create adds a service to the catalog. The code must be unique.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	product, err := catalog.NewProduct(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if err := applyPrices(product, req.MonthlyPrice, req.OnetimePrice); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a single product.
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by its catalog code.
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List pages through the catalog. Defaults follow the admin UI: page 1,
// twenty rows, curated sort order ascending.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// ListActive returns every active product, the set a deal builder can
// pick from.
func (s *ProductService) ListActive(ctx context.Context) ([]ProductResponse, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "sort_order"
	filter.OrderDir = "asc"
	filter.PageSize = 200

	products, err := s.productRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update applies a partial edit: name, description, prices, and sort
// order are each optional.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		if req.Name != nil || req.Description != nil {
			name, description := product.Name, product.Description
			if req.Name != nil {
				name = *req.Name
			}
			if req.Description != nil {
				description = *req.Description
			}
			if err := product.Update(name, description); err != nil {
				return err
			}
		}
		if err := applyPrices(product, req.MonthlyPrice, req.OnetimePrice); err != nil {
			return err
		}
		if req.SortOrder != nil {
			product.SetSortOrder(*req.SortOrder)
		}
		return nil
	})
}

// UpdateCode changes the catalog code, enforcing uniqueness.
func (s *ProductService) UpdateCode(ctx context.Context, productID uuid.UUID, req UpdateProductCodeRequest) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		if req.Code != product.Code {
			exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
			}
		}
		return product.UpdateCode(req.Code)
	})
}

// Activate returns a retired product to the deal-builder picker.
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		return product.Activate()
	})
}

// Deactivate retires a product from new deals.
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		return product.Deactivate()
	})
}

// Delete removes a product from the catalog. Deal items that
// referenced it keep their denormalized copy.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}
