package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexibleAmount is a custom decimal type that can unmarshal both JSON
// numbers and quoted strings ("5000", "5000.00", 5000).
type FlexibleAmount struct {
	decimal.Decimal
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexibleAmount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	f.Decimal = d
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexibleAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Decimal)
}
