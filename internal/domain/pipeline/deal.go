package pipeline

import (
	"fmt"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStatus represents the lifecycle status of a deal
type DealStatus string

const (
	DealStatusDraft    DealStatus = "draft"
	DealStatusSent     DealStatus = "sent"
	DealStatusDeclined DealStatus = "declined"
	DealStatusAccepted DealStatus = "accepted"
	DealStatusArchived DealStatus = "archived"
)

// IsValid checks if the status is a valid DealStatus
func (s DealStatus) IsValid() bool {
	switch s {
	case DealStatusDraft, DealStatusSent, DealStatusDeclined, DealStatusAccepted, DealStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of DealStatus
func (s DealStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DealStatus) CanTransitionTo(target DealStatus) bool {
	switch s {
	case DealStatusDraft:
		return target == DealStatusSent || target == DealStatusArchived
	case DealStatusSent:
		return target == DealStatusAccepted || target == DealStatusDeclined || target == DealStatusArchived
	case DealStatusDeclined:
		return target == DealStatusSent || target == DealStatusArchived
	case DealStatusAccepted:
		return target == DealStatusArchived
	case DealStatusArchived:
		return false // Terminal state
	}
	return false
}

// IsActiveScoring returns true if deals in this status are eligible for
// confidence scoring. Accepted and archived deals keep their last score.
func (s DealStatus) IsActiveScoring() bool {
	return s == DealStatusSent || s == DealStatusDeclined
}

// ActiveScoringStatuses returns the statuses eligible for scoring
func ActiveScoringStatuses() []DealStatus {
	return []DealStatus{DealStatusSent, DealStatusDeclined}
}

// EngagementKind classifies a logged engagement signal
type EngagementKind string

const (
	EngagementView EngagementKind = "VIEW"
	EngagementCall EngagementKind = "CALL"
)

// EngagementEvent records a single engagement signal against a deal
type EngagementEvent struct {
	ID         uuid.UUID
	DealID     uuid.UUID
	Kind       EngagementKind
	Note       string
	OccurredAt time.Time
}

// DealItem represents a priced line item on a deal, denormalized from the
// product catalog at the time it was added
type DealItem struct {
	ID            uuid.UUID
	DealID        uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	ProductCode   string
	MonthlyPrice  decimal.Decimal
	OnetimePrice  decimal.Decimal
	Quantity      int
	MonthlyAmount decimal.Decimal // MonthlyPrice * Quantity
	OnetimeAmount decimal.Decimal // OnetimePrice * Quantity
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewDealItem creates a new deal line item
func NewDealItem(dealID, productID uuid.UUID, productName, productCode string, monthlyPrice, onetimePrice valueobject.Money, quantity int) (*DealItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if monthlyPrice.Amount().IsNegative() || onetimePrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	now := time.Now()
	qty := decimal.NewFromInt(int64(quantity))

	return &DealItem{
		ID:            uuid.New(),
		DealID:        dealID,
		ProductID:     productID,
		ProductName:   productName,
		ProductCode:   productCode,
		MonthlyPrice:  monthlyPrice.Amount(),
		OnetimePrice:  onetimePrice.Amount(),
		Quantity:      quantity,
		MonthlyAmount: monthlyPrice.Amount().Mul(qty),
		OnetimeAmount: onetimePrice.Amount().Mul(qty),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates amounts
func (i *DealItem) UpdateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	qty := decimal.NewFromInt(int64(quantity))
	i.Quantity = quantity
	i.MonthlyAmount = i.MonthlyPrice.Mul(qty)
	i.OnetimeAmount = i.OnetimePrice.Mul(qty)
	i.UpdatedAt = time.Now()

	return nil
}

// UpdatePrices updates the item prices and recalculates amounts
func (i *DealItem) UpdatePrices(monthlyPrice, onetimePrice valueobject.Money) error {
	if monthlyPrice.Amount().IsNegative() || onetimePrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	qty := decimal.NewFromInt(int64(i.Quantity))
	i.MonthlyPrice = monthlyPrice.Amount()
	i.OnetimePrice = onetimePrice.Amount()
	i.MonthlyAmount = i.MonthlyPrice.Mul(qty)
	i.OnetimeAmount = i.OnetimePrice.Mul(qty)
	i.UpdatedAt = time.Now()

	return nil
}

// Deal represents a sales opportunity (recommendation) aggregate root.
// It manages the proposal lifecycle from draft through decision, and carries
// the engagement signals the scorer reads.
type Deal struct {
	shared.BaseAggregateRoot
	ClientID      uuid.UUID
	ClientName    string
	Title         string
	Notes         string
	Items         []DealItem
	MonthlyTotal  decimal.Decimal // Sum of item monthly amounts
	OnetimeTotal  decimal.Decimal // Sum of item one-time amounts
	Status        DealStatus
	SentAt        *time.Time
	DecidedAt     *time.Time
	ArchivedAt    *time.Time
	LastContactAt *time.Time
	DeclineReason string
	Engagements   []EngagementEvent
}

// NewDeal creates a new deal in draft status
func NewDeal(clientID uuid.UUID, clientName, title string) (*Deal, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot exceed 200 characters")
	}

	deal := &Deal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		Title:             title,
		Items:             make([]DealItem, 0),
		MonthlyTotal:      decimal.Zero,
		OnetimeTotal:      decimal.Zero,
		Status:            DealStatusDraft,
		Engagements:       make([]EngagementEvent, 0),
	}

	deal.AddDomainEvent(NewDealCreatedEvent(deal))

	return deal, nil
}

// UpdateTitle updates the deal title
// Only allowed while the deal is modifiable
func (d *Deal) UpdateTitle(title string) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a deal after a decision was made")
	}
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Deal title cannot exceed 200 characters")
	}

	d.Title = title
	d.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets free-form notes on the deal
func (d *Deal) SetNotes(notes string) {
	d.Notes = notes
	d.UpdatedAt = time.Now()
}

// AddItem adds a new line item to the deal
// Only allowed in draft status
func (d *Deal) AddItem(productID uuid.UUID, productName, productCode string, monthlyPrice, onetimePrice valueobject.Money, quantity int) (*DealItem, error) {
	if d.Status != DealStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft deal")
	}

	for _, item := range d.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already on deal, update quantity instead")
		}
	}

	item, err := NewDealItem(d.ID, productID, productName, productCode, monthlyPrice, onetimePrice, quantity)
	if err != nil {
		return nil, err
	}

	d.Items = append(d.Items, *item)
	d.recalculateTotals()
	d.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item
// Only allowed in draft status
func (d *Deal) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if d.Status != DealStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a non-draft deal")
	}

	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			if err := d.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			d.recalculateTotals()
			d.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Deal item not found")
}

// UpdateItemPrices updates the prices of an existing item
// Only allowed in draft status
func (d *Deal) UpdateItemPrices(itemID uuid.UUID, monthlyPrice, onetimePrice valueobject.Money) error {
	if d.Status != DealStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a non-draft deal")
	}

	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			if err := d.Items[idx].UpdatePrices(monthlyPrice, onetimePrice); err != nil {
				return err
			}
			d.recalculateTotals()
			d.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Deal item not found")
}

// RemoveItem removes an item from the deal
// Only allowed in draft status
func (d *Deal) RemoveItem(itemID uuid.UUID) error {
	if d.Status != DealStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft deal")
	}

	for idx, item := range d.Items {
		if item.ID == itemID {
			d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
			d.recalculateTotals()
			d.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Deal item not found")
}

// Send marks the deal as sent to the client
// Requires at least one priced item
func (d *Deal) Send() error {
	if !d.Status.CanTransitionTo(DealStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send deal in %s status", d.Status))
	}
	if len(d.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send a deal without items")
	}

	now := time.Now()
	d.Status = DealStatusSent
	d.SentAt = &now
	d.DecidedAt = nil
	d.DeclineReason = ""
	d.UpdatedAt = now

	d.AddDomainEvent(NewDealSentEvent(d))

	return nil
}

// Accept marks the deal as accepted by the client
func (d *Deal) Accept() error {
	if !d.Status.CanTransitionTo(DealStatusAccepted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept deal in %s status", d.Status))
	}

	now := time.Now()
	d.Status = DealStatusAccepted
	d.DecidedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDealAcceptedEvent(d))

	return nil
}

// Decline marks the deal as declined by the client
func (d *Deal) Decline(reason string) error {
	if !d.Status.CanTransitionTo(DealStatusDeclined) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot decline deal in %s status", d.Status))
	}

	now := time.Now()
	d.Status = DealStatusDeclined
	d.DecidedAt = &now
	d.DeclineReason = reason
	d.UpdatedAt = now

	d.AddDomainEvent(NewDealDeclinedEvent(d))

	return nil
}

// Archive archives the deal
func (d *Deal) Archive() error {
	if !d.Status.CanTransitionTo(DealStatusArchived) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot archive deal in %s status", d.Status))
	}

	now := time.Now()
	d.Status = DealStatusArchived
	d.ArchivedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDealArchivedEvent(d))

	return nil
}

// LogView records a proposal view engagement signal
func (d *Deal) LogView(occurredAt time.Time) *EngagementEvent {
	return d.logEngagement(EngagementView, "", occurredAt)
}

// LogCall records a call engagement signal and refreshes last contact
func (d *Deal) LogCall(note string, occurredAt time.Time) *EngagementEvent {
	event := d.logEngagement(EngagementCall, note, occurredAt)
	if d.LastContactAt == nil || occurredAt.After(*d.LastContactAt) {
		d.LastContactAt = &occurredAt
	}
	return event
}

func (d *Deal) logEngagement(kind EngagementKind, note string, occurredAt time.Time) *EngagementEvent {
	event := EngagementEvent{
		ID:         uuid.New(),
		DealID:     d.ID,
		Kind:       kind,
		Note:       note,
		OccurredAt: occurredAt,
	}
	d.Engagements = append(d.Engagements, event)
	d.UpdatedAt = time.Now()
	return &event
}

// EngagementsSince counts engagement events of the given kind at or after the cutoff
func (d *Deal) EngagementsSince(kind EngagementKind, cutoff time.Time) int {
	count := 0
	for _, e := range d.Engagements {
		if e.Kind == kind && !e.OccurredAt.Before(cutoff) {
			count++
		}
	}
	return count
}

// recalculateTotals recalculates the deal totals from its items
func (d *Deal) recalculateTotals() {
	monthly := decimal.Zero
	onetime := decimal.Zero
	for _, item := range d.Items {
		monthly = monthly.Add(item.MonthlyAmount)
		onetime = onetime.Add(item.OnetimeAmount)
	}
	d.MonthlyTotal = monthly
	d.OnetimeTotal = onetime
}

// GetMonthlyTotalMoney returns the monthly total as Money
func (d *Deal) GetMonthlyTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(d.MonthlyTotal)
}

// GetOnetimeTotalMoney returns the one-time total as Money
func (d *Deal) GetOnetimeTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(d.OnetimeTotal)
}

// ItemCount returns the number of line items on the deal
func (d *Deal) ItemCount() int {
	return len(d.Items)
}

// IsDraft returns true if the deal is in draft status
func (d *Deal) IsDraft() bool {
	return d.Status == DealStatusDraft
}

// IsSent returns true if the deal has been sent
func (d *Deal) IsSent() bool {
	return d.Status == DealStatusSent
}

// IsAccepted returns true if the deal was accepted
func (d *Deal) IsAccepted() bool {
	return d.Status == DealStatusAccepted
}

// IsDeclined returns true if the deal was declined
func (d *Deal) IsDeclined() bool {
	return d.Status == DealStatusDeclined
}

// IsArchived returns true if the deal is archived
func (d *Deal) IsArchived() bool {
	return d.Status == DealStatusArchived
}

// IsTerminal returns true if the deal reached a state the scorer ignores
func (d *Deal) IsTerminal() bool {
	return d.IsAccepted() || d.IsArchived()
}

// CanModify returns true if deal fields other than status may change
func (d *Deal) CanModify() bool {
	return d.Status == DealStatusDraft || d.Status == DealStatusSent
}

// GetItem returns an item by its ID
func (d *Deal) GetItem(itemID uuid.UUID) *DealItem {
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			return &d.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (d *Deal) GetItemByProduct(productID uuid.UUID) *DealItem {
	for idx := range d.Items {
		if d.Items[idx].ProductID == productID {
			return &d.Items[idx]
		}
	}
	return nil
}
