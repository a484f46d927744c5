package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyz"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
)

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

// GenerateCaseNumber builds a human-readable case number such as
// DSP-7K2F9QAB. Confusing characters are swapped out so the number survives
// being read over the phone.
func GenerateCaseNumber(prefix string) string {
	code := strings.ToUpper(generateRandom(CaseNumberLength, alphanumeric))

	code = strings.ReplaceAll(code, "0", "2")
	code = strings.ReplaceAll(code, "O", "3")
	code = strings.ReplaceAll(code, "I", "4")
	code = strings.ReplaceAll(code, "L", "5")

	return prefix + code
}
