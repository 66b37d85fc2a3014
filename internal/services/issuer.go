package services

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

const (
	pinMin  = 100000
	pinSpan = 900000
	// PinLength is the number of digits in every issued PIN
	PinLength = 6
)

// NewID returns a fresh record identifier
func NewID() string {
	return uuid.New().String()
}

// NewPin returns a 6-digit PIN drawn uniformly from 100000..999999
func NewPin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(pinSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(pinMin+n.Int64(), 10), nil
}

// IsValidPin reports whether pin has the shape of an issued PIN
func IsValidPin(pin string) bool {
	if len(pin) != PinLength {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
