package catalog

import (
	"strings"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus gates whether a service can be added to new deals.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

const (
	maxProductCodeLength = 50
	maxProductNameLength = 200
)

// Product is a service the agency sells: SEO retainers, site builds,
// ad management. Deals reference products by ID but denormalize name,
// code, and prices into their line items, so editing a product never
// rewrites history.
type Product struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	MonthlyPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OnetimePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder    int             `gorm:"not null;default:0"`
}

func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product with zero prices. The code is
// normalized to upper case.
func NewProduct(code, name string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		MonthlyPrice:      decimal.Zero,
		OnetimePrice:      decimal.Zero,
		Status:            ProductStatusActive,
	}
	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

// NewProductWithPrices creates a product and prices it in one step.
func NewProductWithPrices(code, name string, monthlyPrice, onetimePrice valueobject.Money) (*Product, error) {
	product, err := NewProduct(code, name)
	if err != nil {
		return nil, err
	}
	if err := product.SetPrices(monthlyPrice, onetimePrice); err != nil {
		return nil, err
	}
	return product, nil
}

// touch stamps a mutation for the optimistic-lock check.
func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Update renames the product and replaces its description.
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// UpdateCode changes the catalog code. Existing deal items keep the
// code they were created with.
func (p *Product) UpdateCode(code string) error {
	if err := validateProductCode(code); err != nil {
		return err
	}

	p.Code = strings.ToUpper(code)
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// SetPrices replaces both prices. Negative amounts are rejected; zero
// is fine, a one-time-only service has a zero monthly price.
func (p *Product) SetPrices(monthlyPrice, onetimePrice valueobject.Money) error {
	if monthlyPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Monthly price cannot be negative")
	}
	if onetimePrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "One-time price cannot be negative")
	}

	oldMonthly, oldOnetime := p.MonthlyPrice, p.OnetimePrice
	p.MonthlyPrice = monthlyPrice.Amount()
	p.OnetimePrice = onetimePrice.Amount()
	p.touch()
	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldMonthly, oldOnetime))
	return nil
}

// SetSortOrder positions the product in catalog listings.
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.touch()
}

// Activate makes the product available for new deals again.
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.touch()
	p.AddDomainEvent(NewProductStatusChangedEvent(p, ProductStatusInactive, ProductStatusActive))
	return nil
}

// Deactivate retires the product from new deals. Deals already
// carrying it are untouched.
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.touch()
	p.AddDomainEvent(NewProductStatusChangedEvent(p, ProductStatusActive, ProductStatusInactive))
	return nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// GetMonthlyPriceMoney wraps the stored decimal for callers that need
// currency-safe arithmetic.
func (p *Product) GetMonthlyPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.MonthlyPrice)
}

func (p *Product) GetOnetimePriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.OnetimePrice)
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > maxProductCodeLength {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !isCodeRune(r) {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func isCodeRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > maxProductNameLength {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
