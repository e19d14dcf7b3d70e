package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/models"
)

// ErrMalformedSnapshot marks a stored cart that could not be decoded
var ErrMalformedSnapshot = errors.New("malformed cart snapshot")

// Encode serializes the state as a JSON array of flat line-item records
func Encode(s State) ([]byte, error) {
	if s == nil {
		s = State{}
	}
	return json.Marshal(s)
}

// Decode parses a snapshot written by Encode. Lines with a non-positive id
// are dropped, quantities are clamped and duplicate ids are merged so the
// result always satisfies the one-line-per-product rule.
func Decode(blob []byte) (State, error) {
	var records []models.CartLineItem
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	s := State{}
	for _, r := range records {
		if r.ID <= 0 {
			continue
		}
		if i := s.index(r.ID); i >= 0 {
			s[i].Quantity = mergeQuantity(s[i].Quantity, r.Quantity)
			continue
		}
		r.Quantity = ClampQuantity(r.Quantity)
		s = append(s, r)
	}
	return s, nil
}
