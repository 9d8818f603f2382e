package cgt

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/cgt-calculator/pkg/datetime"
)

// ErrorKind identifies why a disposal could not be evaluated.
type ErrorKind int

const (
	// InvalidDateOrder means the sell date is earlier than the buy date.
	InvalidDateOrder ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidDateOrder:
		return "InvalidDateOrder"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrInvalidDateOrder matches any ValidationError of kind InvalidDateOrder
// when used with errors.Is.
var ErrInvalidDateOrder = errors.New("sell date earlier than buy date")

// ValidationError reports a disposal that cannot produce a result.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ValidationError) Is(target error) bool {
	return e.Kind == InvalidDateOrder && target == ErrInvalidDateOrder
}

func newInvalidDateOrder(buyDate, sellDate time.Time) *ValidationError {
	return &ValidationError{
		Kind: InvalidDateOrder,
		Message: fmt.Sprintf("%s: sold %s, bought %s",
			ErrInvalidDateOrder, datetime.FormatDate(sellDate), datetime.FormatDate(buyDate)),
	}
}
