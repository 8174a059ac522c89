package ledger

import (
	"context"

	"fintrack/internal/domain"

	"gorm.io/gorm"
)

// MemberRole returns the actor's role on a wallet. Non-members get
// NotFoundError, exactly like any other read.
func (s *Service) MemberRole(ctx context.Context, actorID, walletID uint) (domain.Role, error) {
	return s.authorize(ctx, s.db, actorID, walletID, domain.RoleViewer)
}

// authorize resolves the actor's membership on a wallet and checks it against
// the minimum role the action requires. A missing membership row yields
// NotFoundError whether the wallet exists or not, so non-members can never
// distinguish "no such wallet" from "not yours". A member with too low a role
// gets ErrForbidden.
func (s *Service) authorize(ctx context.Context, db *gorm.DB, actorID, walletID uint, min domain.Role) (domain.Role, error) {
	var member domain.Membership
	err := db.WithContext(ctx).
		Where("wallet_id = ? AND user_id = ?", walletID, actorID).
		First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", notFoundErr("wallet")
		}
		return "", err
	}
	if !member.Role.Covers(min) {
		return member.Role, ErrForbidden
	}
	return member.Role, nil
}
