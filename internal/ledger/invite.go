package ledger

import (
	"context"

	"fintrack/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Invite grants targetUserID a role on a shared wallet. Only the OWNER may
// invite, the wallet must already be shared, and the granted role is limited
// to CONTRIBUTOR or VIEWER. Inviting an existing member updates their role
// instead of failing, so the call is idempotent.
func (s *Service) Invite(ctx context.Context, actorID, walletID, targetUserID uint, role domain.Role) (*domain.Membership, error) {
	if _, err := s.authorize(ctx, s.db, actorID, walletID, domain.RoleOwner); err != nil {
		return nil, err
	}
	if role != domain.RoleContributor && role != domain.RoleViewer {
		return nil, validationErr("role", "must be CONTRIBUTOR or VIEWER")
	}
	var member domain.Membership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet domain.Wallet
		if err := tx.First(&wallet, walletID).Error; err != nil {
			return err
		}
		if !wallet.IsShared {
			return &InvalidStateError{Reason: "wallet is not shared; update it before inviting members"}
		}
		var target domain.User
		if err := tx.First(&target, targetUserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundErr("user")
			}
			return err
		}
		err := tx.Where("wallet_id = ? AND user_id = ?", walletID, targetUserID).First(&member).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			member = domain.Membership{WalletID: walletID, UserID: targetUserID, Role: role}
			return tx.Create(&member).Error
		case err != nil:
			return err
		}
		// Already a member: update the role in place. The OWNER row is fixed
		// at wallet creation and is never re-granted through an invite.
		if member.Role == domain.RoleOwner {
			return &InvalidStateError{Reason: "the wallet owner's role cannot be changed"}
		}
		member.Role = role
		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"wallet_id": walletID,
		"actor_id":  actorID,
		"user_id":   targetUserID,
		"role":      role,
	}).Info("Wallet member invited")
	if err := s.db.WithContext(ctx).Preload("User").First(&member, member.ID).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
