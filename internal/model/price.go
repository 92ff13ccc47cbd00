package model

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrPriceInvalid  = errors.New("price must be a decimal number with at most 2 decimal places")
	ErrPriceNegative = errors.New("price can't be negative")
	ErrPriceTooBig   = errors.New("price must have at most 10 digits")
)

var (
	priceFormat  = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	priceCeiling = decimal.New(1, 8)
)

// Price is an exact amount of money with two decimal places. It is stored
// as a decimal(10,2) and written to JSON as a string like "12500.00"
type Price struct {
	decimal.Decimal
}

// NewPrice returns the price of the given number of cents
func NewPrice(cents int64) Price {
	return Price{decimal.New(cents, -2)}
}

// ParsePrice parses a plain decimal string such as "12500", "12500.5" or "12500.50"
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "-") {
		return Price{}, ErrPriceNegative
	}

	if !priceFormat.MatchString(s) {
		return Price{}, ErrPriceInvalid
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, ErrPriceInvalid
	}

	if d.GreaterThanOrEqual(priceCeiling) {
		return Price{}, ErrPriceTooBig
	}

	return Price{d}, nil
}

func (p Price) String() string {
	return p.StringFixed(2)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON accepts both "12500.00" and 12500.00
func (p *Price) UnmarshalJSON(b []byte) error {
	v, err := ParsePrice(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}

	*p = v
	return nil
}
