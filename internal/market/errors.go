package market

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFirmID   = errors.New("firm id is required")
	ErrDuplicateFirm = errors.New("duplicate firm id")
)

// InvariantError reports a broken conservation law inside clearing. It indicates a
// bug in the allocation, not bad input; a round that produced one must not be persisted.
type InvariantError struct {
	Check  string
	FirmID string
	Detail string
}

func (e *InvariantError) Error() string {
	if e.FirmID != "" {
		return fmt.Sprintf("market invariant %q violated for firm %s: %s", e.Check, e.FirmID, e.Detail)
	}
	return fmt.Sprintf("market invariant %q violated: %s", e.Check, e.Detail)
}

// IsInvariantError reports whether err (or anything it wraps) is an *InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// checkAllocation verifies the conservation laws on an allocation.
func checkAllocation(a Allocation) error {
	total := 0
	for _, f := range a.Firms {
		if f.Sold < 0 {
			return &InvariantError{Check: "non-negative sales", FirmID: f.FirmID, Detail: fmt.Sprintf("sold %d", f.Sold)}
		}
		if f.Sold > f.Supply {
			return &InvariantError{Check: "sales within supply", FirmID: f.FirmID, Detail: fmt.Sprintf("sold %d of %d offered", f.Sold, f.Supply)}
		}
		total += f.Sold
	}
	if total > a.TotalDemand {
		return &InvariantError{Check: "sales within demand", Detail: fmt.Sprintf("sold %d against demand %d", total, a.TotalDemand)}
	}
	return nil
}
