package ledger

import (
	"context"
	"strings"
	"time"

	"fintrack/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service is the ledger domain service. All operations authorize the acting
// user against the wallet's membership table before touching data.
type Service struct {
	db *gorm.DB
}

// New creates a Service on top of a GORM handle.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WalletDetail pairs a wallet with its derived balance.
type WalletDetail struct {
	domain.Wallet
	Balance domain.Money `json:"balance"`
}

// WalletPatch carries the mutable wallet fields; nil means "leave unchanged".
type WalletPatch struct {
	Name     *string
	IsShared *bool
}

// CreateWallet creates a wallet and its OWNER membership atomically.
func (s *Service) CreateWallet(ctx context.Context, ownerID uint, name string, isShared bool) (*WalletDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	wallet := domain.Wallet{Name: name, OwnerID: ownerID, IsShared: isShared}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
		// The owner membership is created in the same transaction so a wallet
		// is never visible without its OWNER row.
		member := domain.Membership{WalletID: wallet.ID, UserID: ownerID, Role: domain.RoleOwner}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"owner_id":  ownerID,
		"is_shared": isShared,
	}).Info("Wallet created")
	return s.walletDetail(ctx, wallet.ID)
}

// ListWallets returns every wallet the user is a member of, newest first,
// each with its derived balance.
func (s *Service) ListWallets(ctx context.Context, userID uint) ([]WalletDetail, error) {
	var wallets []domain.Wallet
	err := s.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.wallet_id = wallets.id").
		Where("memberships.user_id = ?", userID).
		Order("wallets.created_at DESC, wallets.id DESC").
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	details := make([]WalletDetail, 0, len(wallets))
	for _, w := range wallets {
		balance, err := s.Balance(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, WalletDetail{Wallet: w, Balance: balance})
	}
	return details, nil
}

// GetWallet returns a wallet with members and balance. Any member may read;
// non-members get NotFoundError.
func (s *Service) GetWallet(ctx context.Context, actorID, walletID uint) (*WalletDetail, error) {
	if _, err := s.authorize(ctx, s.db, actorID, walletID, domain.RoleViewer); err != nil {
		return nil, err
	}
	return s.walletDetail(ctx, walletID)
}

// UpdateWallet applies a patch to the wallet's mutable fields. OWNER only.
// is_shared may only transition false to true.
func (s *Service) UpdateWallet(ctx context.Context, actorID, walletID uint, patch WalletPatch) (*WalletDetail, error) {
	if _, err := s.authorize(ctx, s.db, actorID, walletID, domain.RoleOwner); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet domain.Wallet
		if err := tx.First(&wallet, walletID).Error; err != nil {
			return err
		}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return validationErr("name", "must not be empty")
			}
			wallet.Name = name
		}
		if patch.IsShared != nil {
			if wallet.IsShared && !*patch.IsShared {
				return &InvalidTransitionError{Reason: "a shared wallet cannot be made personal again"}
			}
			wallet.IsShared = *patch.IsShared
		}
		return tx.Save(&wallet).Error
	})
	if err != nil {
		return nil, err
	}
	return s.walletDetail(ctx, walletID)
}

// DeleteWallet removes a wallet with its memberships and transactions in one
// transaction. OWNER only.
func (s *Service) DeleteWallet(ctx context.Context, actorID, walletID uint) error {
	if _, err := s.authorize(ctx, s.db, actorID, walletID, domain.RoleOwner); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wallet_id = ?", walletID).Delete(&domain.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wallet_id = ?", walletID).Delete(&domain.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Wallet{}, walletID).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"wallet_id": walletID,
		"actor_id":  actorID,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("Wallet deleted")
	return nil
}

// walletDetail loads a wallet with its members and computes the balance.
func (s *Service) walletDetail(ctx context.Context, walletID uint) (*WalletDetail, error) {
	var wallet domain.Wallet
	err := s.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("memberships.created_at, memberships.id") }).
		Preload("Members.User").
		First(&wallet, walletID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("wallet")
		}
		return nil, err
	}
	balance, err := s.Balance(ctx, walletID)
	if err != nil {
		return nil, err
	}
	return &WalletDetail{Wallet: wallet, Balance: balance}, nil
}
