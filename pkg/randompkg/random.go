// Package randompkg provides functionality for generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer between min and max inclusive.
func IntBetween(min, max int) int64 {
	return int64(min) + Intn(max-min+1)
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// TenantID generates a random tenant id.
func TenantID() string {
	return "tenant-" + String(8)
}

// AccountName generates a random account name.
func AccountName() string {
	return strings.ToUpper(String(1)) + String(9)
}

// Amount generates a random non-negative amount between min and max with up to 4 decimal places.
func Amount(min, max int) decimal.Decimal {
	return decimal.New(IntBetween(min*10_000, max*10_000), -4)
}

// Currency generates a random currency code.
func Currency() string {
	currencies := []string{"JOD", "USD", "EUR"}
	return currencies[Intn(len(currencies))]
}

// Notes generates random posting notes.
func Notes() string {
	return fmt.Sprintf("%s %s", String(5), String(7))
}
