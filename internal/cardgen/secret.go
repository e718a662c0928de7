package cardgen

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint is a keyed hash of a PAN, safe to index and log.
func Fingerprint(pan string, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(NormalizePAN(pan)))
	return hex.EncodeToString(h.Sum(nil))
}

// DemoCVV derives a stable three digit CVV from the PAN and expiry. It backs
// the in-memory backend and is not a card network CVV.
func DemoCVV(pan, expiry string, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(tail(NormalizePAN(pan), 12) + "|" + expiry + "|static-v1"))
	sum := h.Sum(nil)
	off := sum[len(sum)-1] & 0x0f
	code := (uint32(sum[off])&0x7f)<<24 |
		uint32(sum[off+1])<<16 |
		uint32(sum[off+2])<<8 |
		uint32(sum[off+3])
	return fmt.Sprintf("%03d", code%1000)
}
