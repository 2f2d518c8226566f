package ledger

import (
	"github.com/google/uuid"
)

// LocationKind distinguishes physical warehouse locations from the virtual
// endpoints that stock enters from or leaves to.
type LocationKind string

const (
	// LocationKindInternal is a physical location inside a warehouse
	LocationKindInternal LocationKind = "INTERNAL"
	// LocationKindSupplier is the virtual source of inbound goods
	LocationKindSupplier LocationKind = "SUPPLIER"
	// LocationKindCustomer is the virtual destination of outbound goods
	LocationKindCustomer LocationKind = "CUSTOMER"
	// LocationKindInTransit holds stock between transfer dispatch and receipt
	LocationKindInTransit LocationKind = "IN_TRANSIT"
	// LocationKindScrap receives written-off stock
	LocationKindScrap LocationKind = "SCRAP"
	// LocationKindQuarantine holds returned stock pending inspection
	LocationKindQuarantine LocationKind = "QUARANTINE"
	// LocationKindAdjustment is the virtual counterpart of count corrections
	LocationKindAdjustment LocationKind = "ADJUSTMENT"
)

// IsValid checks if the kind is a valid LocationKind
func (k LocationKind) IsValid() bool {
	switch k {
	case LocationKindInternal, LocationKindSupplier, LocationKindCustomer,
		LocationKindInTransit, LocationKindScrap, LocationKindQuarantine,
		LocationKindAdjustment:
		return true
	}
	return false
}

// String returns the string representation of LocationKind
func (k LocationKind) String() string {
	return string(k)
}

// IsVirtual returns true for endpoints that do not hold tracked inventory
func (k LocationKind) IsVirtual() bool {
	return k != LocationKindInternal
}

// IsUnconstrainedSource returns true for virtual sources that may supply
// unlimited quantity (no on-hand check applies when moving out of them).
func (k LocationKind) IsUnconstrainedSource() bool {
	switch k {
	case LocationKindSupplier, LocationKindCustomer, LocationKindInTransit, LocationKindAdjustment:
		return true
	}
	return false
}

// Location identifies one endpoint of a stock move. Internal locations carry
// a warehouse and a location id; virtual endpoints carry only their kind.
type Location struct {
	Kind        LocationKind `gorm:"type:varchar(20);not null"`
	WarehouseID uuid.UUID    `gorm:"type:uuid"`
	LocationID  uuid.UUID    `gorm:"type:uuid"`
}

// NewInternalLocation creates a physical warehouse location
func NewInternalLocation(warehouseID, locationID uuid.UUID) Location {
	return Location{Kind: LocationKindInternal, WarehouseID: warehouseID, LocationID: locationID}
}

// NewVirtualLocation creates a virtual endpoint of the given kind.
// Quarantine and scrap are warehouse-scoped; the others are global.
func NewVirtualLocation(kind LocationKind) Location {
	return Location{Kind: kind}
}

// NewWarehouseVirtualLocation creates a warehouse-scoped virtual endpoint
// (quarantine or scrap areas belong to a specific warehouse).
func NewWarehouseVirtualLocation(kind LocationKind, warehouseID uuid.UUID) Location {
	return Location{Kind: kind, WarehouseID: warehouseID}
}

// IsZero returns true if the location is unset
func (l Location) IsZero() bool {
	return l.Kind == ""
}

// IsResolvable returns true if the location is fully specified for its kind
func (l Location) IsResolvable() bool {
	if !l.Kind.IsValid() {
		return false
	}
	if l.Kind == LocationKindInternal {
		return l.WarehouseID != uuid.Nil && l.LocationID != uuid.Nil
	}
	return true
}

// Equal returns true if both locations identify the same endpoint
func (l Location) Equal(other Location) bool {
	return l.Kind == other.Kind && l.WarehouseID == other.WarehouseID && l.LocationID == other.LocationID
}

// TracksInventory returns true if movements touching this location must be
// reflected in an InventoryLevel bucket.
func (l Location) TracksInventory() bool {
	return l.Kind == LocationKindInternal
}
