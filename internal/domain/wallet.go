package domain

import "time"

// Wallet Model. Balance is derived from the transaction log on every read and
// is therefore not a column (see ledger.Balance).
type Wallet struct {
	ID        uint         `gorm:"primaryKey" json:"id"`            // Primary key
	Name      string       `gorm:"size:200;not null" json:"name"`   // Wallet display name
	OwnerID   uint         `gorm:"index;not null" json:"owner_id"`  // Foreign key to User, immutable after creation
	IsShared  bool         `gorm:"not null;default:false" json:"is_shared"` // Personal wallets may become shared, never the reverse
	Members   []Membership `gorm:"constraint:OnDelete:CASCADE" json:"members,omitempty"` // Membership rows, cascade on wallet delete
	CreatedAt time.Time    `json:"created_at"` // Timestamp of creation
}
