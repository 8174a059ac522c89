package ledger

import (
	"context"
	"strings"

	"fintrack/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TransactionInput carries the caller-settable fields of a transaction.
type TransactionInput struct {
	Type     domain.TransactionType
	Category string
	Amount   domain.Money
	Date     domain.Date
	Note     string
}

func validateTransactionInput(in TransactionInput) error {
	if !in.Type.Valid() {
		return validationErr("type", "must be INCOME or EXPENSE")
	}
	if strings.TrimSpace(in.Category) == "" {
		return validationErr("category", "must not be empty")
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return validationErr("amount", "must be greater than 0")
	}
	if !in.Amount.HasCentPrecision() {
		return validationErr("amount", "must have at most 2 decimal places")
	}
	if in.Date.IsZero() {
		return validationErr("date", "must be a valid YYYY-MM-DD date")
	}
	return nil
}

// CreateTransaction records an income or expense on a wallet. Requires
// CONTRIBUTOR or better. The stored balance is never touched; it is derived
// from the transaction log on read.
func (s *Service) CreateTransaction(ctx context.Context, actorID, walletID uint, in TransactionInput) (*domain.Transaction, error) {
	if _, err := s.authorize(ctx, s.db, actorID, walletID, domain.RoleContributor); err != nil {
		return nil, err
	}
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}
	tr := domain.Transaction{
		WalletID:    walletID,
		CreatedByID: actorID,
		Type:        in.Type,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Note:        in.Note,
		Date:        in.Date,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tr).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"wallet_id":      walletID,
		"transaction_id": tr.ID,
		"actor_id":       actorID,
		"type":           tr.Type,
		"amount":         tr.Amount.StringFixed(2),
	}).Info("Transaction created")
	return &tr, nil
}

// GetTransaction returns a single transaction. Any wallet member may read it.
func (s *Service) GetTransaction(ctx context.Context, actorID, transactionID uint) (*domain.Transaction, error) {
	tr, err := s.findTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, s.db, actorID, tr.WalletID, domain.RoleViewer); err != nil {
		// Report the transaction, not its wallet, as missing so a probing
		// non-member learns nothing from the resource name.
		if _, ok := err.(*NotFoundError); ok {
			return nil, notFoundErr("transaction")
		}
		return nil, err
	}
	return tr, nil
}

// ListTransactions returns one page of a wallet's transactions ordered by
// date desc, then creation desc, plus the total count. Any member may read.
func (s *Service) ListTransactions(ctx context.Context, actorID, walletID uint, page, pageSize int) ([]domain.Transaction, int64, error) {
	if _, err := s.authorize(ctx, s.db, actorID, walletID, domain.RoleViewer); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("wallet_id = ?", walletID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var transactions []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("date DESC, created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// UpdateTransaction replaces the mutable fields of a transaction. Only the
// creator or the wallet OWNER may edit; the wallet reference is immutable.
func (s *Service) UpdateTransaction(ctx context.Context, actorID, transactionID uint, in TransactionInput) (*domain.Transaction, error) {
	tr, err := s.findTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(ctx, actorID, tr); err != nil {
		return nil, err
	}
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}
	tr.Type = in.Type
	tr.Category = strings.TrimSpace(in.Category)
	tr.Amount = in.Amount
	tr.Date = in.Date
	tr.Note = in.Note
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Save(tr).Error
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// DeleteTransaction removes a transaction. Only the creator or the wallet
// OWNER may delete.
func (s *Service) DeleteTransaction(ctx context.Context, actorID, transactionID uint) error {
	tr, err := s.findTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(ctx, actorID, tr); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&domain.Transaction{}, transactionID).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"wallet_id":      tr.WalletID,
		"transaction_id": transactionID,
		"actor_id":       actorID,
	}).Info("Transaction deleted")
	return nil
}

// authorizeManage enforces the edit/delete policy: the creator of the
// transaction, or the wallet OWNER. Other members get ErrForbidden and
// non-members NotFoundError.
func (s *Service) authorizeManage(ctx context.Context, actorID uint, tr *domain.Transaction) error {
	role, err := s.authorize(ctx, s.db, actorID, tr.WalletID, domain.RoleViewer)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return notFoundErr("transaction")
		}
		return err
	}
	if tr.CreatedByID == actorID || role == domain.RoleOwner {
		return nil
	}
	return ErrForbidden
}

func (s *Service) findTransaction(ctx context.Context, transactionID uint) (*domain.Transaction, error) {
	var tr domain.Transaction
	if err := s.db.WithContext(ctx).First(&tr, transactionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("transaction")
		}
		return nil, err
	}
	return &tr, nil
}
