package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const barcodeWidth = 13

// GenerateBarcode returns the scannable code for one ticket: current unix
// milliseconds concatenated with a random component, zero-padded to at least
// 13 digits. Uniqueness is probabilistic, not constraint-enforced; the record
// id stays the persisted uniqueness key.
func GenerateBarcode() string {
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(10000))
	code := fmt.Sprintf("%d%d", time.Now().UnixMilli(), randomNum.Int64())
	for len(code) < barcodeWidth {
		code = "0" + code
	}
	return code
}

// GenerateTicketNumber returns the human-readable ticket number. Cosmetic
// only; collisions are tolerated.
func GenerateTicketNumber() string {
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(1000000))
	return fmt.Sprintf("TKT-%06d", randomNum.Int64())
}
