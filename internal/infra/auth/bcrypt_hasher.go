package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCodeHasher stores SMS codes as bcrypt hashes.
type BcryptCodeHasher struct {
	cost int
}

func NewBcryptCodeHasher(cost int) *BcryptCodeHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCodeHasher{cost: cost}
}

func (h *BcryptCodeHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptCodeHasher) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
