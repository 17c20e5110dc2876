package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(id, code string) domain.Account {
	return domain.Account{
		AccountID:   id,
		TenantID:    "t1",
		Code:        code,
		Name:        "Account " + code,
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

func testEntry(id, number string, date time.Time, created time.Time) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     id,
		TenantID:    "t1",
		EntryNumber: number,
		EntryDate:   date,
		Status:      domain.Posted,
		Lines: []domain.LedgerLine{
			{LineID: id + "-d", EntryID: id, TenantID: "t1", AccountID: "a1", Side: domain.Debit, Amount: decimal.NewFromInt(100), LineDate: date, UnitID: "u1"},
			{LineID: id + "-c", EntryID: id, TenantID: "t1", AccountID: "a2", Side: domain.Credit, Amount: decimal.NewFromInt(100), LineDate: date},
		},
		AuditFields: domain.AuditFields{CreatedAt: created},
	}
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.SaveAccounts(context.Background(), []domain.Account{testAccount("a1", "1210"), testAccount("a2", "3100")}))
	return s
}

func TestWithinTransaction_RollbackRestoresState(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	hookRan := false
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.SaveJournalEntry(ctx, testEntry("e1", "JE-202405-0001", date, time.Now())))
		s.OnCommit(ctx, func() { hookRan = true })
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, hookRan)
	_, err = s.FindJournalEntryByID(ctx, "t1", "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTransaction_UncommittedWritesHiddenFromOtherReaders(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	err := s.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, s.SaveJournalEntry(txCtx, testEntry("e1", "JE-202405-0001", date, time.Now())))

		_, err := s.FindJournalEntryByID(txCtx, "t1", "e1")
		assert.NoError(t, err, "transaction sees its own write")

		done := make(chan error)
		go func() {
			_, err := s.FindJournalEntryByID(ctx, "t1", "e1")
			done <- err
		}()
		assert.ErrorIs(t, <-done, apperrors.ErrNotFound)

		debit, _, err := s.SumAccountLines(ctx, "t1", "a1", nil)
		require.NoError(t, err)
		assert.True(t, debit.IsZero())
		return nil
	})
	require.NoError(t, err)

	_, err = s.FindJournalEntryByID(ctx, "t1", "e1")
	assert.NoError(t, err)
}

func TestWithinTransaction_NestedJoinsOuterAndHooksRunAfterCommit(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	var order []string
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			s.OnCommit(ctx, func() { order = append(order, "hook") })
			order = append(order, "body")
			return s.SaveJournalEntry(ctx, testEntry("e1", "JE-202405-0001", date, time.Now()))
		})
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"body", "hook"}, order)
	seq, err := s.NextEntrySequence(ctx, "t1", date)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)
}

func TestOnCommit_OutsideTransactionRunsImmediately(t *testing.T) {
	s := NewStore()
	ran := false
	s.OnCommit(context.Background(), func() { ran = true })
	assert.True(t, ran)
}

func TestSaveJournalEntry_DuplicateNumberIsCollision(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveJournalEntry(ctx, testEntry("e1", "JE-202405-0001", date, time.Now())))
	err := s.SaveJournalEntry(ctx, testEntry("e2", "JE-202405-0001", date, time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrNumberingCollision)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestSaveAccounts_AllOrNothing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	err := s.SaveAccounts(ctx, []domain.Account{testAccount("a1", "1000"), testAccount("a2", "1000")})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	has, err := s.TenantHasAccounts(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestListJournalEntries_Paginates(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		require.NoError(t, s.SaveJournalEntry(ctx, testEntry(id, "JE-"+id, base.AddDate(0, 0, i), created.Add(time.Duration(i)*time.Minute))))
	}

	page1, next, err := s.ListJournalEntries(ctx, "t1", 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)
	assert.Equal(t, "e", page1[0].EntryID)
	assert.Equal(t, "d", page1[1].EntryID)

	page2, next, err := s.ListJournalEntries(ctx, "t1", 2, next)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "c", page2[0].EntryID)

	page3, next, err := s.ListJournalEntries(ctx, "t1", 2, next)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Nil(t, next)
	assert.Equal(t, "a", page3[0].EntryID)
}

func TestAggregates(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveJournalEntry(ctx, testEntry("e1", "JE-1", may, may)))
	require.NoError(t, s.SaveJournalEntry(ctx, testEntry("e2", "JE-2", june, june)))

	debit, credit, err := s.SumAccountLines(ctx, "t1", "a1", nil)
	require.NoError(t, err)
	assert.True(t, debit.Equal(decimal.NewFromInt(200)))
	assert.True(t, credit.IsZero())

	asOf := time.Date(2024, 5, 31, 15, 0, 0, 0, time.UTC)
	debit, _, err = s.SumUnitLines(ctx, "t1", "a1", "u1", &asOf)
	require.NoError(t, err)
	assert.True(t, debit.Equal(decimal.NewFromInt(100)))

	outstanding, err := s.OutstandingByUnit(ctx, "t1", "a1")
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	assert.Equal(t, "u1", outstanding[0].UnitID)

	has, err := s.AccountHasLines(ctx, "a2")
	require.NoError(t, err)
	assert.True(t, has)

	rows, err := s.GetTrialBalanceData(ctx, "t1", asOf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1210", rows[0].AccountCode)
	assert.True(t, rows[0].Debit.Equal(rows[1].Credit))
}

func TestFailAfter(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	boom := errors.New("disk full")
	s.FailAfter("SaveAccount", 1, boom)

	require.NoError(t, s.SaveAccount(ctx, testAccount("a3", "1300")))
	assert.ErrorIs(t, s.SaveAccount(ctx, testAccount("a4", "1400")), boom)
	require.NoError(t, s.SaveAccount(ctx, testAccount("a4", "1400")))
}
