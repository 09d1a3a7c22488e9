// Package sheets defines the outbound port for the ledger export.
package sheets

import (
	"context"

	"timemanager/internal/core"
)

// LedgerWriter appends one ledger entry to an external spreadsheet and
// returns an opaque row reference.
type LedgerWriter interface {
	Append(ctx context.Context, txn core.Transaction) (rowRef string, err error)
}
