package model

import "github.com/m-mizutani/goerr/v2"

// Error kinds surfaced to the user. Callers identify them with errors.Is;
// the wrapping error carries goerr values naming the offending input.
var (
	ErrMissingRequiredColumn    = goerr.New("missing required column")
	ErrUnresolvedPlayerIdentity = goerr.New("unresolved player identity")
	ErrInfeasibleRoster         = goerr.New("infeasible roster")
	ErrInvalidConfiguration     = goerr.New("invalid configuration")
	ErrInvalidValue             = goerr.New("invalid value")
	ErrFetchFailed              = goerr.New("fetch failed")
)

// Keys used with goerr.V across packages.
const (
	FileKey     = "file"
	ColumnKey   = "column"
	RowKey      = "row"
	PlayerKey   = "player"
	SlotKey     = "slot"
	FieldKey    = "field"
	ValueKey    = "value"
	BudgetKey   = "budget"
	MinCostKey  = "min_cost"
	SourceKey   = "source"
	URLKey      = "url"
	PositionKey = "position"
)
