package shortener

import (
	"crypto/sha1" //nolint:gosec // code derivation, not a security boundary
	"encoding/hex"
	"strconv"
)

// CodeLength is the fixed length of every generated short code.
const CodeLength = 6

// alphabet is the base-62 symbol set. The order (lowercase, uppercase,
// digits) is part of the code format and must not change.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode derives the canonical short code for a long URL.
// The derivation is a pure function of the input: the SHA-1 hex digest is
// split into six consecutive 5-character windows, and each window taken
// modulo 62 selects one symbol from the alphabet.
func GenerateCode(longURL string) Code {
	return deriveCode(longURL)
}

// GenerateSaltedCode derives an alternative code for a long URL after a
// collision. Attempt 0 yields the canonical code; higher attempts salt the
// input so the derivation stays deterministic per (url, attempt) pair.
func GenerateSaltedCode(longURL string, attempt int) Code {
	if attempt == 0 {
		return deriveCode(longURL)
	}

	return deriveCode(longURL + "#" + strconv.Itoa(attempt))
}

func deriveCode(input string) Code {
	sum := sha1.Sum([]byte(input)) //nolint:gosec
	digest := hex.EncodeToString(sum[:])

	buf := make([]byte, CodeLength)

	for i := range buf {
		window := digest[i*5 : i*5+5]

		// 5 hex chars always fit in 20 bits; ParseUint cannot fail here.
		n, _ := strconv.ParseUint(window, 16, 64)

		buf[i] = alphabet[n%uint64(len(alphabet))]
	}

	return Code(buf)
}
