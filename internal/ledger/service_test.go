package ledger

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWalletCreatesOwnerMembership(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Groceries", false)
	require.NoError(t, err)

	assert.Equal(t, "Groceries", wallet.Name)
	assert.Equal(t, owner.ID, wallet.OwnerID)
	assert.False(t, wallet.IsShared)
	assert.Equal(t, "0.00", wallet.Balance.StringFixed(2))

	// A personal wallet has exactly one membership: the owner's
	require.Len(t, wallet.Members, 1)
	assert.Equal(t, owner.ID, wallet.Members[0].UserID)
	assert.Equal(t, domain.RoleOwner, wallet.Members[0].Role)
}

func TestCreateWalletRejectsEmptyName(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")

	for _, name := range []string{"", "   "} {
		_, err := s.CreateWallet(context.Background(), owner.ID, name, false)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "name", validation.Field)
	}
}

func TestGetWalletNonMemberGetsNotFound(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	stranger := createUser(t, s, "bob")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Household", false)
	require.NoError(t, err)

	// Existence must not leak: the stranger sees NotFound, never Forbidden
	_, err = s.GetWallet(context.Background(), stranger.ID, wallet.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NotErrorIs(t, err, ErrForbidden)

	// A wallet that does not exist at all reads the same way
	_, err = s.GetWallet(context.Background(), stranger.ID, wallet.ID+1000)
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateWalletSharingTransition(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Trip", false)
	require.NoError(t, err)

	// false -> true is allowed and touches no membership rows
	shared := true
	updated, err := s.UpdateWallet(context.Background(), owner.ID, wallet.ID, WalletPatch{IsShared: &shared})
	require.NoError(t, err)
	assert.True(t, updated.IsShared)
	assert.EqualValues(t, 1, membershipCount(t, s, wallet.ID))

	// true -> false fails and leaves the wallet unchanged
	personal := false
	_, err = s.UpdateWallet(context.Background(), owner.ID, wallet.ID, WalletPatch{IsShared: &personal})
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)

	after, err := s.GetWallet(context.Background(), owner.ID, wallet.ID)
	require.NoError(t, err)
	assert.True(t, after.IsShared)
	assert.Equal(t, "Trip", after.Name)
}

func TestUpdateWalletRequiresOwner(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	other := createUser(t, s, "bob")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Shared bills", true)
	require.NoError(t, err)
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, other.ID, domain.RoleContributor)
	require.NoError(t, err)

	name := "Hijacked"
	_, err = s.UpdateWallet(context.Background(), other.ID, wallet.ID, WalletPatch{Name: &name})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestInviteIsIdempotent(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	guest := createUser(t, s, "bob")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Flat", true)
	require.NoError(t, err)

	member, err := s.Invite(context.Background(), owner.ID, wallet.ID, guest.ID, domain.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, member.Role)

	// Inviting again with the same role leaves exactly one membership row
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, guest.ID, domain.RoleViewer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, membershipCount(t, s, wallet.ID)) // owner + guest

	// Inviting with a different role updates it in place
	member, err = s.Invite(context.Background(), owner.ID, wallet.ID, guest.ID, domain.RoleContributor)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleContributor, member.Role)
	assert.EqualValues(t, 2, membershipCount(t, s, wallet.ID))
}

func TestInviteRequiresSharedWallet(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	guest := createUser(t, s, "bob")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Personal", false)
	require.NoError(t, err)

	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, guest.ID, domain.RoleViewer)
	var state *InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.EqualValues(t, 1, membershipCount(t, s, wallet.ID))
}

func TestInviteValidation(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	guest := createUser(t, s, "bob")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Flat", true)
	require.NoError(t, err)

	// OWNER cannot be granted through an invite
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, guest.ID, domain.RoleOwner)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "role", validation.Field)

	// Unknown target user
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, guest.ID+1000, domain.RoleViewer)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "user", notFound.Resource)

	// Non-owner members may not invite
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, guest.ID, domain.RoleContributor)
	require.NoError(t, err)
	third := createUser(t, s, "carol")
	_, err = s.Invite(context.Background(), guest.ID, wallet.ID, third.ID, domain.RoleViewer)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestViewerCannotCreateTransaction(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	viewer := createUser(t, s, "bob")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Flat", true)
	require.NoError(t, err)
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, viewer.ID, domain.RoleViewer)
	require.NoError(t, err)

	_, err = s.CreateTransaction(context.Background(), viewer.ID, wallet.ID, TransactionInput{
		Type:     domain.TypeExpense,
		Category: "Rent",
		Amount:   money(t, "100.00"),
		Date:     domain.NewDate(2024, time.January, 5),
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Budget", false)
	require.NoError(t, err)

	valid := TransactionInput{
		Type:     domain.TypeIncome,
		Category: "Salary",
		Amount:   money(t, "1000.00"),
		Date:     domain.NewDate(2024, time.January, 5),
	}

	cases := []struct {
		name    string
		mutate  func(*TransactionInput)
		field   string
	}{
		{"bad type", func(in *TransactionInput) { in.Type = "TRANSFER" }, "type"},
		{"empty category", func(in *TransactionInput) { in.Category = "  " }, "category"},
		{"zero amount", func(in *TransactionInput) { in.Amount = money(t, "0") }, "amount"},
		{"negative amount", func(in *TransactionInput) { in.Amount = money(t, "-5.00") }, "amount"},
		{"sub-cent amount", func(in *TransactionInput) { in.Amount = money(t, "1.005") }, "amount"},
		{"missing date", func(in *TransactionInput) { in.Date = domain.Date{} }, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := s.CreateTransaction(context.Background(), owner.ID, wallet.ID, in)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
		})
	}

	tr, err := s.CreateTransaction(context.Background(), owner.ID, wallet.ID, valid)
	require.NoError(t, err)
	assert.NotZero(t, tr.ID)
	assert.Equal(t, owner.ID, tr.CreatedByID)
}

func TestTransactionManagePolicy(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	contributor := createUser(t, s, "bob")
	other := createUser(t, s, "carol")
	stranger := createUser(t, s, "dave")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Flat", true)
	require.NoError(t, err)
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, contributor.ID, domain.RoleContributor)
	require.NoError(t, err)
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, other.ID, domain.RoleContributor)
	require.NoError(t, err)

	tr, err := s.CreateTransaction(context.Background(), contributor.ID, wallet.ID, TransactionInput{
		Type:     domain.TypeExpense,
		Category: "Groceries",
		Amount:   money(t, "42.50"),
		Date:     domain.NewDate(2024, time.March, 3),
	})
	require.NoError(t, err)

	edit := TransactionInput{
		Type:     domain.TypeExpense,
		Category: "Groceries",
		Amount:   money(t, "45.00"),
		Date:     domain.NewDate(2024, time.March, 3),
		Note:     "receipt corrected",
	}

	// Another contributor may read but not edit or delete
	_, err = s.GetTransaction(context.Background(), other.ID, tr.ID)
	require.NoError(t, err)
	_, err = s.UpdateTransaction(context.Background(), other.ID, tr.ID, edit)
	require.ErrorIs(t, err, ErrForbidden)
	err = s.DeleteTransaction(context.Background(), other.ID, tr.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// A non-member sees nothing at all
	_, err = s.GetTransaction(context.Background(), stranger.ID, tr.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	// The creator may edit their own transaction
	updated, err := s.UpdateTransaction(context.Background(), contributor.ID, tr.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "45.00", updated.Amount.StringFixed(2))
	assert.Equal(t, "receipt corrected", updated.Note)

	// The wallet owner may delete anyone's transaction
	require.NoError(t, s.DeleteTransaction(context.Background(), owner.ID, tr.ID))
	_, err = s.GetTransaction(context.Background(), owner.ID, tr.ID)
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteWalletCascades(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	guest := createUser(t, s, "bob")

	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Flat", true)
	require.NoError(t, err)
	_, err = s.Invite(context.Background(), owner.ID, wallet.ID, guest.ID, domain.RoleContributor)
	require.NoError(t, err)
	_, err = s.CreateTransaction(context.Background(), guest.ID, wallet.ID, TransactionInput{
		Type:     domain.TypeIncome,
		Category: "Deposit",
		Amount:   money(t, "10.00"),
		Date:     domain.NewDate(2024, time.May, 1),
	})
	require.NoError(t, err)

	// Only the owner may delete
	require.ErrorIs(t, s.DeleteWallet(context.Background(), guest.ID, wallet.ID), ErrForbidden)
	require.NoError(t, s.DeleteWallet(context.Background(), owner.ID, wallet.ID))

	assert.EqualValues(t, 0, membershipCount(t, s, wallet.ID))
	var transactionCount int64
	require.NoError(t, s.db.Model(&domain.Transaction{}).Where("wallet_id = ?", wallet.ID).Count(&transactionCount).Error)
	assert.EqualValues(t, 0, transactionCount)

	_, err = s.GetWallet(context.Background(), owner.ID, wallet.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestConcurrentTransactionCreates(t *testing.T) {
	s := newTestService(t)
	owner := createUser(t, s, "alice")
	wallet, err := s.CreateWallet(context.Background(), owner.ID, "Busy", false)
	require.NoError(t, err)

	const writers = 5
	const perWriter = 4
	amount := money(t, "1.00")
	done := make(chan error, writers)
	for w := 0; w < writers; w++ {
		go func() {
			for i := 0; i < perWriter; i++ {
				_, err := s.CreateTransaction(context.Background(), owner.ID, wallet.ID, TransactionInput{
					Type:     domain.TypeIncome,
					Category: "Batch",
					Amount:   amount,
					Date:     domain.NewDate(2024, time.June, 1),
				})
				if err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for w := 0; w < writers; w++ {
		require.NoError(t, <-done)
	}

	// Every record was written atomically with a unique id and the derived
	// balance reflects all of them
	var ids []uint
	require.NoError(t, s.db.Model(&domain.Transaction{}).Where("wallet_id = ?", wallet.ID).Pluck("id", &ids).Error)
	require.Len(t, ids, writers*perWriter)
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		require.False(t, seen[id])
		seen[id] = true
	}
	balance, err := s.Balance(context.Background(), wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", balance.StringFixed(2))
}
