package dto

import (
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit      decimal.Decimal `json:"credit" swaggertype:"string"`
}

// TrialBalanceTotals sums both columns of a trial balance.
type TrialBalanceTotals struct {
	Debit  decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit decimal.Decimal `json:"credit" swaggertype:"string"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf     string                    `json:"asOf"`
	Rows     []TrialBalanceRowResponse `json:"rows"`
	Totals   TrialBalanceTotals        `json:"totals"`
	Balanced bool                      `json:"balanced"`
}

// ToTrialBalanceResponse converts domain trial balance rows to a DTO response
func ToTrialBalanceResponse(rows []domain.TrialBalanceRow, asOf time.Time) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: asOf.Format("2006-01-02"),
		Rows: make([]TrialBalanceRowResponse, len(rows)),
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, row := range rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}

	response.Totals = TrialBalanceTotals{Debit: totalDebit, Credit: totalCredit}
	response.Balanced = totalDebit.Equal(totalCredit)
	return response
}

// ReconciliationResponse compares a unit's invoice snapshots with its ledger balance.
type ReconciliationResponse struct {
	UnitID            string          `json:"unitID"`
	InvoiceBalanceDue decimal.Decimal `json:"invoiceBalanceDue" swaggertype:"string"`
	LedgerOutstanding decimal.Decimal `json:"ledgerOutstanding" swaggertype:"string"`
	Difference        decimal.Decimal `json:"difference" swaggertype:"string"`
	InSync            bool            `json:"inSync"`
}

// ToReconciliationResponse converts a reconciliation result.
func ToReconciliationResponse(r *domain.UnitReconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		UnitID:            r.UnitID,
		InvoiceBalanceDue: r.InvoiceBalanceDue,
		LedgerOutstanding: r.LedgerOutstanding,
		Difference:        r.Difference,
		InSync:            r.InSync,
	}
}
