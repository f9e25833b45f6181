package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"net/url"
	"sync"
)

// SignatureParam is the procedure argument carrying the request signature.
const SignatureParam = "sig"

// Hasher provides keyed HMAC-SHA256 hashing backed by a pool of hash
// instances, so concurrent callers do not allocate a new HMAC per call.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a Hasher whose instances are keyed with hashKey.
//
// Example usage:
//
//	h := utils.NewHasher("my-secret-key")
//	sig := h.SumHex([]byte("some data"))
func NewHasher(hashKey string) *Hasher {
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, []byte(hashKey))
			},
		},
	}
}

// Sum computes an HMAC-SHA256 digest over data using a pooled instance.
func (h *Hasher) Sum(data []byte) []byte {
	hasher := h.pool.Get().(hash.Hash)
	hasher.Reset()

	hasher.Write(data)
	sum := hasher.Sum(nil)

	hasher.Reset()
	h.pool.Put(hasher)

	return sum
}

// SumHex is Sum encoded as lowercase hex.
func (h *Hasher) SumHex(data []byte) string {
	return hex.EncodeToString(h.Sum(data))
}

// Verify reports whether sigHex is the hex HMAC of data. The comparison is
// constant time.
func (h *Hasher) Verify(data []byte, sigHex string) bool {
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	return hmac.Equal(h.Sum(data), sig)
}

// SignValues returns the signature of form values: the HMAC of their
// canonical encoding (keys sorted, the signature argument itself excluded).
func (h *Hasher) SignValues(values url.Values) string {
	return h.SumHex([]byte(CanonicalValues(values)))
}

// VerifyValues checks the signature argument of values.
func (h *Hasher) VerifyValues(values url.Values) bool {
	return h.Verify([]byte(CanonicalValues(values)), values.Get(SignatureParam))
}

// CanonicalValues encodes values sorted by key without the signature
// argument. Repeated keys keep their order.
func CanonicalValues(values url.Values) string {
	if !values.Has(SignatureParam) {
		return values.Encode()
	}

	clean := make(url.Values, len(values))
	for k, v := range values {
		if k != SignatureParam {
			clean[k] = v
		}
	}
	return clean.Encode()
}

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// Unlike Hasher, this function creates a new HMAC instance on each call.
// The development server uses it for password hashes.
//
// Example usage:
//
//	signature := utils.HashString("some data", "my-secret-key")
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}
