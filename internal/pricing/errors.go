package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alceccentric/arena-pricing-cron/models"
)

var (
	ErrMissingGameIdentifier    = errors.New("game occurrence has no game id")
	ErrUnresolvedGameOccurrence = errors.New("game occurrence not found in store")
	ErrEmptyPeriod              = errors.New("period has neither games nor a starting price change")
	ErrDegeneratePeriod         = errors.New("degenerate period")
	ErrInvalidCivilDate         = errors.New("invalid civil date")
)

// ReconciliationError aborts a whole reconciliation request. Kind is one of the Err* sentinels.
type ReconciliationError struct {
	Kind     error
	Position models.Position
	GameID   string
	Err      error
}

func (e *ReconciliationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	fmt.Fprintf(&b, " (row %d", e.Position)
	if e.GameID != "" {
		fmt.Fprintf(&b, ", game %s", e.GameID)
	}
	b.WriteString(")")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ReconciliationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
