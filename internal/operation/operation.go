package operation

import (
	"errors"
	"strings"
)

// Type is the closed set of domain operations an interval carries prices for.
type Type string

const (
	Registration Type = "REGISTRATION"
	Renewal      Type = "RENEWAL"
	Transfer     Type = "TRANSFER"
	Privacy      Type = "PRIVACY"
)

var ErrInvalidOperation = errors.New("invalid_operation")

// Parse normalizes a wire value into a Type.
func Parse(value string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(Registration):
		return Registration, nil
	case string(Renewal):
		return Renewal, nil
	case string(Transfer):
		return Transfer, nil
	case string(Privacy):
		return Privacy, nil
	default:
		return "", ErrInvalidOperation
	}
}

// Purchasable reports whether the operation can be priced by the calculator.
// Privacy is a per-year add-on resolved through margin analysis only.
func (t Type) Purchasable() bool {
	switch t {
	case Registration, Renewal, Transfer:
		return true
	default:
		return false
	}
}
