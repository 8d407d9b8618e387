package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/ledger"
	"github.com/visitly/visitly/internal/platform/jsonfile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCostForVisits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		visits        int
		visitsPerCoin int
		want          int
	}{
		{name: "exact multiple", visits: 1000, visitsPerCoin: 1000, want: 1},
		{name: "one over rounds up", visits: 1001, visitsPerCoin: 1000, want: 2},
		{name: "below one coin", visits: 1, visitsPerCoin: 1000, want: 1},
		{name: "zero visits", visits: 0, visitsPerCoin: 1000, want: 0},
		{name: "several coins", visits: 2500, visitsPerCoin: 1000, want: 3},
		{name: "rate of one", visits: 7, visitsPerCoin: 1, want: 7},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ledger.CostForVisits(tc.visits, tc.visitsPerCoin))
		})
	}
}

func TestCoinsForRupees(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, ledger.CoinsForRupees(10, 5))
	assert.Equal(t, 1, ledger.CoinsForRupees(9.99, 5))
	assert.Equal(t, 0, ledger.CoinsForRupees(4.99, 5))
	assert.Equal(t, 0, ledger.CoinsForRupees(0, 5))
}

// newTestLedger builds a ledger over real file stores in a temp dir and
// seeds one user with the given balance.
func newTestLedger(t *testing.T, coins int) (*ledger.Ledger, *jsonfile.UserStore, *jsonfile.AuditStore, int64) {
	t.Helper()

	dir := t.TempDir()
	users := jsonfile.NewUserStore(dir, testLogger())
	audit := jsonfile.NewAuditStore(dir, testLogger())

	user, err := domain.NewUser("alice", "hashed-password", "203.0.113.7")
	require.NoError(t, err)
	user.Coins = coins
	require.NoError(t, users.Create(context.Background(), user))

	return ledger.New(users, audit, testLogger()), users, audit, user.ID
}

func TestLedgerDebit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("debits balance and records negative audit amount", func(t *testing.T) {
		t.Parallel()
		l, users, audit, userID := newTestLedger(t, 10)

		updated, err := l.Debit(ctx, domain.ActorUser, userID, 3, domain.AuditActionStartTask, "requested 2500 uid abc")
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Coins)

		stored, err := users.GetByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 7, stored.Coins)

		entries, err := audit.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.AuditActionStartTask, entries[0].Action)
		assert.Equal(t, -3, entries[0].Amount)
		assert.Equal(t, domain.ActorUser, entries[0].Actor)
	})

	t.Run("insufficient balance leaves everything untouched", func(t *testing.T) {
		t.Parallel()
		l, users, audit, userID := newTestLedger(t, 2)

		_, err := l.Debit(ctx, domain.ActorUser, userID, 3, domain.AuditActionStartTask, "too much")
		require.ErrorIs(t, err, ledger.ErrInsufficientCoins)

		stored, err := users.GetByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Coins)

		entries, err := audit.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		t.Parallel()
		l, _, _, userID := newTestLedger(t, 10)

		_, err := l.Debit(ctx, domain.ActorUser, userID, 0, domain.AuditActionStartTask, "")
		assert.ErrorIs(t, err, ledger.ErrNonPositiveCoins)
	})
}

func TestLedgerCredit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	l, users, audit, userID := newTestLedger(t, 5)

	updated, err := l.Credit(ctx, domain.ActorAdmin, userID, 4, domain.AuditActionAddCoins, "manual add")
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Coins)

	stored, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 9, stored.Coins)

	entries, err := audit.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Amount)
	assert.Equal(t, domain.ActorAdmin, entries[0].Actor)
}

func TestLedgerRecordGrant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	l, users, audit, userID := newTestLedger(t, 10)

	require.NoError(t, l.RecordGrant(ctx, domain.ActorSystem, userID, 10, domain.AuditActionSignup, "signup bonus"))

	// The grant is audit-only; the balance was set with the record itself.
	stored, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Coins)

	entries, err := audit.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionSignup, entries[0].Action)
	assert.Equal(t, 10, entries[0].Amount)
}
