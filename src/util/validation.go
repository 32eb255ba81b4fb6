package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrAmountMissing    = errors.New("amount is missing")
	ErrAmountNotNumeric = errors.New("amount is not numeric")
	ErrAmountNotFinite  = errors.New("amount is not a finite number")
)

// ParseAmount accepts a JSON number or a JSON string holding a number, e.g. 10, 2.5, "10.50".
// null, booleans, objects and non-finite values are rejected.
func ParseAmount(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrAmountMissing
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, ErrAmountNotNumeric
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return 0, ErrAmountNotNumeric
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, ErrAmountNotFinite
		}
		return 0, ErrAmountNotNumeric
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrAmountNotFinite
	}
	return v, nil
}

// ValidateCategory reports whether category can key an expense bucket.
func ValidateCategory(category string) bool {
	return category != ""
}
