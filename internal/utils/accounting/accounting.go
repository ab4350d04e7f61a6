package accounting

import (
	"fmt"

	"github.com/finometry/ledger_backend/internal/apperrors"
	"github.com/finometry/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the fixed-point epsilon absorbing rounding when
// comparing debit and credit totals. Never compare with float equality.
var BalanceTolerance = decimal.RequireFromString("0.01")

// WithinTolerance reports whether a and b differ by at most the tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}

// SignedAmount applies the account type's sign convention to a line.
// DEBIT to ASSET/EXPENSE and CREDIT to LIABILITY/EQUITY/INCOME are
// positive; the opposite sides are negative.
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
	net := line.Debit.Sub(line.Credit)
	if accountType.IsDebitNormal() {
		return net, nil
	}
	return net.Neg(), nil
}

// ValidateLines rejects malformed lines: both sides set, neither side set,
// or a negative amount on either side.
func ValidateLines(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return apperrors.NewValidation(apperrors.CodeEntryNoLines, "entry must have at least one line")
	}
	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return apperrors.NewValidation(apperrors.CodeLineMalformed,
				fmt.Sprintf("line %d: debit and credit amounts must be non-negative", i))
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			return apperrors.NewValidation(apperrors.CodeLineMalformed,
				fmt.Sprintf("line %d: exactly one of debit or credit must be non-zero", i))
		}
	}
	return nil
}

// ValidateEntryBalance checks the double-entry invariant: the debit total
// equals the credit total within the fixed-point tolerance.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if err := ValidateLines(lines); err != nil {
		return err
	}
	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, line := range lines {
		debitTotal = debitTotal.Add(line.Debit)
		creditTotal = creditTotal.Add(line.Credit)
	}
	if !WithinTolerance(debitTotal, creditTotal) {
		return apperrors.NewValidation(apperrors.CodeEntryUnbalanced,
			fmt.Sprintf("entry does not balance: debit total is %s, credit total is %s",
				debitTotal.String(), creditTotal.String()))
	}
	return nil
}
