package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest debit/credit difference still accepted as balanced.
var BalanceTolerance = decimal.NewFromFloat(0.01)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// RoundMoney rounds an amount to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsMoneyScale reports whether d fits in two decimal places without rounding,
// which is the precision ledger and payment amounts are stored at.
func IsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(RoundMoney(d))
}

// SumSides returns the total debits and credits of a set of line inputs.
func SumSides(lines []domain.LedgerLineInput) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		if l.Side == domain.Debit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}
	return debits, credits
}

// IsBalanced reports whether debits and credits agree within BalanceTolerance.
func IsBalanced(debits, credits decimal.Decimal) bool {
	return debits.Sub(credits).Abs().LessThanOrEqual(BalanceTolerance)
}

// ValidateLines checks the per-line preconditions of a journal entry.
func ValidateLines(lines []domain.LedgerLineInput) error {
	if len(lines) == 0 {
		return fmt.Errorf("journal entry must have at least one line")
	}
	for i, l := range lines {
		if l.AccountID == "" {
			return fmt.Errorf("line %d: account is required", i+1)
		}
		if !l.Side.Valid() {
			return fmt.Errorf("line %d: side must be DEBIT or CREDIT, got %q", i+1, l.Side)
		}
		if !l.Amount.IsPositive() {
			return fmt.Errorf("line %d: amount must be positive, got %s", i+1, l.Amount.String())
		}
		if !IsMoneyScale(l.Amount) {
			return fmt.Errorf("line %d: amount %s has more than two decimal places", i+1, l.Amount.String())
		}
	}
	return nil
}

// ChargeAmount computes what a charge head bills a unit. An override replaces
// the head's own rate; a zero override bills nothing.
func ChargeAmount(head domain.ChargeHead, unit domain.Unit, override *decimal.Decimal) decimal.Decimal {
	rate := head.Rate
	if override != nil {
		rate = *override
	}
	switch head.CalculationType {
	case domain.PerSqft:
		return RoundMoney(rate.Mul(unit.AreaSqft))
	default:
		// FLAT_RATE, and PERCENTAGE until a base amount exists to apply it to.
		return RoundMoney(rate)
	}
}

// GST returns round(amount * rate / 100, 2).
func GST(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(ratePercent).Div(hundred))
}

// SimpleInterest returns round(principal * annualRate/100 * days/365, 2), or zero
// when there is nothing to charge.
func SimpleInterest(principal, annualRatePercent decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !principal.IsPositive() || !annualRatePercent.IsPositive() {
		return decimal.Zero
	}
	return RoundMoney(principal.
		Mul(annualRatePercent).Div(hundred).
		Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear))
}

// DaysOverdue counts whole days between the end of the grace period and asOf.
func DaysOverdue(dueDate time.Time, graceDays int, asOf time.Time) int {
	deadline := domain.DateOnly(dueDate).AddDate(0, 0, graceDays)
	diff := domain.DateOnly(asOf).Sub(deadline)
	if diff <= 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}
