package domain

import "time"

// TransactionType is the direction of a transaction.
type TransactionType string

// Transaction types
const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction Model
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                         // Primary key
	WalletID    uint            `gorm:"index:idx_wallet_date;not null" json:"wallet_id"` // Foreign key to Wallet, immutable
	CreatedByID uint            `gorm:"index;not null" json:"created_by"`             // Foreign key to the creating User, immutable
	Type        TransactionType `gorm:"size:10;not null" json:"type"`                 // INCOME or EXPENSE
	Category    string          `gorm:"size:100;not null" json:"category"`            // Non-empty category label
	Amount      Money           `gorm:"type:decimal(12,2);not null" json:"amount"`    // Strictly positive fixed-point amount
	Note        string          `json:"note"`                                         // Optional free-form note
	Date        Date            `gorm:"type:date;index:idx_wallet_date" json:"date"`  // Calendar date, no time component
	CreatedAt   time.Time       `json:"created_at"`                                   // Timestamp of creation
}
