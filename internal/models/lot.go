package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotStatus defines the inventory states of a lot.
type LotStatus string

const (
	LotStatusAvailable LotStatus = "available"
	LotStatusQuoted    LotStatus = "quoted"
	LotStatusReserved  LotStatus = "reserved"
	LotStatusSold      LotStatus = "sold"
)

// Locked reports whether the lot is tied to an active deal and therefore
// may not be deleted or deactivated.
func (s LotStatus) Locked() bool {
	return s == LotStatusReserved || s == LotStatusSold
}

// Lot is a sellable land parcel inside a block.
type Lot struct {
	ID        int64           `json:"id"`
	BlockID   int64           `json:"block_id"`
	Number    string          `json:"number"`
	Area      decimal.Decimal `json:"area"`
	Price     decimal.Decimal `json:"price"`
	Status    LotStatus       `json:"status"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// Block groups lots inside a project.
type Block struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
