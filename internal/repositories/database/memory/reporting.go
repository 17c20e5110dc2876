package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
)

func (s *Store) GetTrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	inRange := onOrBefore(&asOf)
	rows := map[string]*domain.TrialBalanceRow{}
	s.read(ctx, func(t *tables) {
		for _, e := range t.entries {
			if e.TenantID != tenantID {
				continue
			}
			for _, l := range e.Lines {
				if !inRange(l.LineDate) {
					continue
				}
				row, ok := rows[l.AccountID]
				if !ok {
					acc := t.accounts[l.AccountID]
					row = &domain.TrialBalanceRow{
						AccountID:   acc.AccountID,
						AccountCode: acc.Code,
						AccountName: acc.Name,
						AccountType: acc.AccountType,
					}
					rows[l.AccountID] = row
				}
				if l.Side == domain.Debit {
					row.Debit = row.Debit.Add(l.Amount)
				} else {
					row.Credit = row.Credit.Add(l.Amount)
				}
			}
		}
	})
	out := make([]domain.TrialBalanceRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}
