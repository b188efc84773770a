package dataset

import (
	"fmt"
	"strings"
)

// ValidateTransactions enforces the data-quality preconditions shared by all
// engines: non-null customer IDs, strictly positive revenue, strictly
// positive quantity, and discounts inside [0,1). Any violation is fatal;
// the error names the condition and the number of offending rows so the
// caller can report it without re-scanning.
func ValidateTransactions(txs []Transaction) error {
	if len(txs) == 0 {
		return fmt.Errorf("data-quality error: transaction dataset is empty")
	}

	var nullIDs, nonPositiveRevenue, nonPositiveQty, badDiscount int
	for _, tx := range txs {
		if tx.CustomerID == 0 {
			nullIDs++
		}
		if tx.Revenue <= 0 {
			nonPositiveRevenue++
		}
		if tx.Quantity <= 0 {
			nonPositiveQty++
		}
		if tx.DiscountPct < 0 || tx.DiscountPct >= 1 {
			badDiscount++
		}
	}

	var violations []string
	if nullIDs > 0 {
		violations = append(violations, fmt.Sprintf("%d rows with null customer_id", nullIDs))
	}
	if nonPositiveRevenue > 0 {
		violations = append(violations, fmt.Sprintf("%d rows with non-positive revenue", nonPositiveRevenue))
	}
	if nonPositiveQty > 0 {
		violations = append(violations, fmt.Sprintf("%d rows with non-positive quantity", nonPositiveQty))
	}
	if badDiscount > 0 {
		violations = append(violations, fmt.Sprintf("%d rows with discount_pct outside [0,1)", badDiscount))
	}
	if len(violations) > 0 {
		return fmt.Errorf("data-quality error: %s", strings.Join(violations, "; "))
	}
	return nil
}

// ValidateTargets enforces positivity of the target measure.
func ValidateTargets(targets []Target) error {
	if len(targets) == 0 {
		return fmt.Errorf("data-quality error: target dataset is empty")
	}
	var nonPositive int
	for _, t := range targets {
		if t.Target <= 0 {
			nonPositive++
		}
	}
	if nonPositive > 0 {
		return fmt.Errorf("data-quality error: %d target rows with non-positive target_revenue", nonPositive)
	}
	return nil
}
