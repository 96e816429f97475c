package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeDigits = 5

// DigitCodeGenerator makes numeric SMS codes from crypto/rand.
type DigitCodeGenerator struct{}

func (DigitCodeGenerator) NewCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
