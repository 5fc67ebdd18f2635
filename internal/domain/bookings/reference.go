package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/speps/go-hashids/v2"
)

// RefGenerator produces the short booking codes shown in push and email
// copy, e.g. "PB-K7M2XQ".
type RefGenerator struct {
	h *hashids.HashID
}

func NewRefGenerator(salt string) (*RefGenerator, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 6
	data.Alphabet = "abcdefghjkmnpqrstuvwxyz23456789" // no 0/O, 1/l lookalikes

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &RefGenerator{h: h}, nil
}

// NewReference derives a code from the booking user and instant. Codes are
// display handles, not keys; the numeric booking id stays authoritative.
func (g *RefGenerator) NewReference(userID int64, at time.Time) string {
	code, err := g.h.EncodeInt64([]int64{userID, at.UnixMilli()})
	if err != nil {
		return fmt.Sprintf("PB-%d", at.UnixMilli())
	}
	return "PB-" + strings.ToUpper(code)
}
