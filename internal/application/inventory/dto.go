package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
)

// BucketRequest identifies one inventory bucket
type BucketRequest struct {
	ProductID   uuid.UUID `json:"product_id" form:"product_id" binding:"required"`
	WarehouseID uuid.UUID `json:"warehouse_id" form:"warehouse_id" binding:"required"`
	LocationID  uuid.UUID `json:"location_id" form:"location_id" binding:"required"`
	LotRef      string    `json:"lot_ref" form:"lot_ref"`
}

// SetMinimumRequest sets the low-stock alert threshold for a bucket
type SetMinimumRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	LocationID  uuid.UUID       `json:"location_id" binding:"required"`
	LotRef      string          `json:"lot_ref"`
	MinQuantity decimal.Decimal `json:"min_quantity" binding:"required"`
}

// MoveHistoryRequest narrows a ledger history query
type MoveHistoryRequest struct {
	ProductID   uuid.UUID  `json:"product_id" form:"product_id" binding:"required"`
	WarehouseID uuid.UUID  `json:"warehouse_id" form:"warehouse_id"`
	LocationID  uuid.UUID  `json:"location_id" form:"location_id"`
	LotRef      string     `json:"lot_ref" form:"lot_ref"`
	Since       *time.Time `json:"since" form:"since"`
	Until       *time.Time `json:"until" form:"until"`
}

// ValuationRequest identifies one valuation bucket
type ValuationRequest struct {
	ProductID   uuid.UUID `json:"product_id" form:"product_id" binding:"required"`
	WarehouseID uuid.UUID `json:"warehouse_id" form:"warehouse_id" binding:"required"`
	LotRef      string    `json:"lot_ref" form:"lot_ref"`
}

// LevelDTO is the API representation of an inventory level
type LevelDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	LotRef      string          `json:"lot_ref,omitempty"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LevelListResult is a paginated page of levels
type LevelListResult struct {
	Levels   []LevelDTO `json:"levels"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ProductSummaryDTO aggregates on-hand quantity across buckets
type ProductSummaryDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	TotalOnHand decimal.Decimal `json:"total_on_hand"`
}

// MoveDTO is the API representation of a stock move
type MoveDTO struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Source         LocationDTO     `json:"source"`
	Destination    LocationDTO     `json:"destination"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	LotRef         string          `json:"lot_ref,omitempty"`
	DocumentType   string          `json:"document_type"`
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentNumber string          `json:"document_number"`
	Reason         string          `json:"reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// LocationDTO is one endpoint of a move
type LocationDTO struct {
	Kind        string    `json:"kind"`
	WarehouseID uuid.UUID `json:"warehouse_id,omitempty"`
	LocationID  uuid.UUID `json:"location_id,omitempty"`
}

// MoveListResult is a paginated page of ledger history
type MoveListResult struct {
	Moves    []MoveDTO `json:"moves"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// LayerDTO is the API representation of an open valuation layer
type LayerDTO struct {
	ID                uuid.UUID       `json:"id"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	ReceivedAt        time.Time       `json:"received_at"`
}

// ValuationDTO summarizes the cost layers of one valuation bucket
type ValuationDTO struct {
	ProductID     uuid.UUID       `json:"product_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	LotRef        string          `json:"lot_ref,omitempty"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	AverageCost   decimal.Decimal `json:"average_cost"`
	Layers        []LayerDTO      `json:"layers"`
}

func toLevelDTO(level *inventory.InventoryLevel) *LevelDTO {
	return &LevelDTO{
		ID:          level.ID,
		ProductID:   level.Bucket.ProductID,
		WarehouseID: level.Bucket.WarehouseID,
		LocationID:  level.Bucket.LocationID,
		LotRef:      level.Bucket.LotRef,
		OnHand:      level.OnHand,
		Reserved:    level.Reserved,
		Available:   level.Available(),
		MinQuantity: level.MinQuantity,
		UpdatedAt:   level.UpdatedAt,
	}
}

func toLocationDTO(loc ledger.Location) LocationDTO {
	return LocationDTO{
		Kind:        loc.Kind.String(),
		WarehouseID: loc.WarehouseID,
		LocationID:  loc.LocationID,
	}
}

func toMoveDTO(m *ledger.StockMove) MoveDTO {
	return MoveDTO{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Source:         toLocationDTO(m.Source),
		Destination:    toLocationDTO(m.Destination),
		Quantity:       m.Quantity,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost(),
		LotRef:         m.LotRef,
		DocumentType:   m.Document.DocumentType,
		DocumentID:     m.Document.DocumentID,
		DocumentNumber: m.Document.DocumentNumber,
		Reason:         m.Reason,
		CreatedAt:      m.CreatedAt,
	}
}
