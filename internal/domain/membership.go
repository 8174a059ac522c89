package domain

import "time"

// Role is the privilege level of a wallet member. OWNER > CONTRIBUTOR > VIEWER.
type Role string

// Wallet member roles
const (
	RoleOwner       Role = "OWNER"
	RoleContributor Role = "CONTRIBUTOR"
	RoleViewer      Role = "VIEWER"
)

// roleRank orders roles by privilege
var roleRank = map[Role]int{
	RoleViewer:      1,
	RoleContributor: 2,
	RoleOwner:       3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Covers reports whether r grants at least the privilege of min.
func (r Role) Covers(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Membership Model: the (wallet, user, role) authorization record. Exactly one
// OWNER row exists per wallet and it matches Wallet.OwnerID.
type Membership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                    // Primary key
	WalletID  uint      `gorm:"uniqueIndex:idx_wallet_user;not null" json:"wallet_id"`   // Foreign key to Wallet
	UserID    uint      `gorm:"uniqueIndex:idx_wallet_user;index;not null" json:"user_id"` // Foreign key to User
	Role      Role      `gorm:"size:20;not null" json:"role"`                            // OWNER, CONTRIBUTOR or VIEWER
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`                 // Preloaded for member listings
	CreatedAt time.Time `json:"created_at"`                                              // Timestamp the membership was granted
}
