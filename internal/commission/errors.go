package commission

import (
	"errors"

	"github.com/anyulbade/commission-allocation-engine/internal/rates"
)

// Input errors are returned before any arithmetic happens; no partial
// breakdown is ever produced.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidRate         = rates.ErrInvalidRate
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrReconciliation      = errors.New("reconciliation failure")
)
