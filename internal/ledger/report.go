package ledger

import (
	"context"
	"sort"
	"time"

	"fintrack/internal/domain"
)

// Period identifies the calendar month a report covers.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Totals holds the aggregate sums of a report. Income and expense are
// non-negative; balance is income minus expense.
type Totals struct {
	Income  domain.Money `json:"income"`
	Expense domain.Money `json:"expense"`
	Balance domain.Money `json:"balance"`
}

// CategoryTotal is one row of a report's per-category breakdown.
type CategoryTotal struct {
	Category string                 `json:"category"`
	Type     domain.TransactionType `json:"type"`
	Total    domain.Money           `json:"total"`
	Count    int                    `json:"count"`
}

// Report is a monthly per-category aggregation of a wallet's transactions.
type Report struct {
	WalletID   uint            `json:"wallet_id"`
	Period     Period          `json:"period"`
	Totals     Totals          `json:"totals"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// Balance derives a wallet's balance from its full transaction log: the sum
// of INCOME amounts minus the sum of EXPENSE amounts. It is recomputed on
// every read and never persisted, so it cannot drift from the log.
func (s *Service) Balance(ctx context.Context, walletID uint) (domain.Money, error) {
	var transactions []domain.Transaction
	err := s.db.WithContext(ctx).
		Select("type", "amount").
		Where("wallet_id = ?", walletID).
		Find(&transactions).Error
	if err != nil {
		return domain.Money{}, err
	}
	var balance domain.Money
	for _, tr := range transactions {
		if tr.Type == domain.TypeIncome {
			balance = balance.Add(tr.Amount)
		} else {
			balance = balance.Sub(tr.Amount)
		}
	}
	return balance, nil
}

// Summary builds the monthly report for a wallet. Any member may read it;
// non-members get NotFoundError. An empty month yields zero totals and an
// empty category list, not an error.
func (s *Service) Summary(ctx context.Context, actorID, walletID uint, month, year int) (*Report, error) {
	if _, err := s.authorize(ctx, s.db, actorID, walletID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, validationErr("month", "must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, validationErr("year", "must be a four-digit year")
	}

	// Inclusive month window: [first of month, first of next month).
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var transactions []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("wallet_id = ? AND date >= ? AND date < ?", walletID, start, end).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	report := &Report{
		WalletID: walletID,
		Period:   Period{Month: month, Year: year},
	}

	type bucketKey struct {
		category string
		kind     domain.TransactionType
	}
	buckets := make(map[bucketKey]*CategoryTotal)
	for _, tr := range transactions {
		if tr.Type == domain.TypeIncome {
			report.Totals.Income = report.Totals.Income.Add(tr.Amount)
		} else {
			report.Totals.Expense = report.Totals.Expense.Add(tr.Amount)
		}
		key := bucketKey{category: tr.Category, kind: tr.Type}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &CategoryTotal{Category: tr.Category, Type: tr.Type}
			buckets[key] = bucket
		}
		bucket.Total = bucket.Total.Add(tr.Amount)
		bucket.Count++
	}
	report.Totals.Balance = report.Totals.Income.Sub(report.Totals.Expense)

	rows := make([]CategoryTotal, 0, len(buckets))
	for _, bucket := range buckets {
		rows = append(rows, *bucket)
	}
	// Deterministic order: type, then biggest totals first, then category.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Type != rows[j].Type {
			return rows[i].Type < rows[j].Type
		}
		if !rows[i].Total.Equal(rows[j].Total.Decimal) {
			return rows[i].Total.GreaterThan(rows[j].Total.Decimal)
		}
		return rows[i].Category < rows[j].Category
	})
	report.ByCategory = rows
	return report, nil
}
