package ledger

import (
	"testing"

	"fintrack/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestService opens an in-memory SQLite database with the full schema.
func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Wallet{}, &domain.Membership{}, &domain.Transaction{},
	))
	return New(db)
}

func createUser(t *testing.T, s *Service, username string) domain.User {
	t.Helper()
	user := domain.User{Username: username, Email: username + "@example.com", Password: "irrelevant"}
	require.NoError(t, s.db.Create(&user).Error)
	return user
}

func money(t *testing.T, value string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(value)
	require.NoError(t, err)
	return m
}

func membershipCount(t *testing.T, s *Service, walletID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.db.Model(&domain.Membership{}).Where("wallet_id = ?", walletID).Count(&count).Error)
	return count
}
