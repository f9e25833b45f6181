// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sync"
	"testing"
)

const testHashKey = "test-secret-key"

func TestHasher_Sum(t *testing.T) {
	h := NewHasher(testHashKey)

	data := []byte("test-data")

	sum1 := h.Sum(data)
	sum2 := h.Sum(data)

	if len(sum1) == 0 {
		t.Fatal("hash result is empty")
	}

	if !bytes.Equal(sum1, sum2) {
		t.Fatal("hash must be deterministic for the same input")
	}

	// verify against direct HMAC computation
	mac := hmac.New(sha256.New, []byte(testHashKey))
	mac.Write(data)
	expected := mac.Sum(nil)

	if !bytes.Equal(sum1, expected) {
		t.Fatalf("unexpected hash value\nwant: %x\ngot:  %x", expected, sum1)
	}
}

func TestHasher_DifferentKeys(t *testing.T) {
	data := []byte("same data")

	a := NewHasher("key-a").SumHex(data)
	b := NewHasher("key-b").SumHex(data)

	if a == b {
		t.Error("different keys must produce different hashes")
	}
}

func TestHasher_Concurrent(t *testing.T) {
	h := NewHasher(testHashKey)
	want := h.SumHex([]byte("payload"))

	var wg sync.WaitGroup
	errs := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := h.SumHex([]byte("payload")); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent hash mismatch: %s", got)
	}
}

func TestHasher_Verify(t *testing.T) {
	h := NewHasher(testHashKey)
	data := []byte("body")
	sig := h.SumHex(data)

	if !h.Verify(data, sig) {
		t.Error("expected valid signature")
	}
	if h.Verify([]byte("other"), sig) {
		t.Error("expected signature mismatch for other data")
	}
	if h.Verify(data, "zz-not-hex") {
		t.Error("expected invalid hex to fail")
	}
}

func TestCanonicalValues(t *testing.T) {
	values := url.Values{}
	values.Set("title", "Buy milk")
	values.Set("id", "5")
	values.Add("tags[]", "home")
	values.Add("tags[]", "errands")

	withSig := url.Values{}
	for k, v := range values {
		withSig[k] = v
	}
	withSig.Set(SignatureParam, "abc")

	want := "id=5&tags%5B%5D=home&tags%5B%5D=errands&title=Buy+milk"
	if got := CanonicalValues(values); got != want {
		t.Errorf("CanonicalValues() = %q, want %q", got, want)
	}
	if got := CanonicalValues(withSig); got != want {
		t.Errorf("CanonicalValues() with sig = %q, want %q", got, want)
	}
	if !withSig.Has(SignatureParam) {
		t.Error("CanonicalValues must not modify its input")
	}
}

func TestHasher_SignAndVerifyValues(t *testing.T) {
	h := NewHasher(testHashKey)

	values := url.Values{}
	values.Set("token", "tkn")
	values.Set("modified_after", "0")
	values.Set(SignatureParam, h.SignValues(values))

	if !h.VerifyValues(values) {
		t.Fatal("expected signed values to verify")
	}

	values.Set("modified_after", "1")
	if h.VerifyValues(values) {
		t.Error("expected tampered values to fail verification")
	}
}

func TestHashString(t *testing.T) {
	got := HashString("password", testHashKey)

	mac := hmac.New(sha256.New, []byte(testHashKey))
	mac.Write([]byte("password"))
	want := hex.EncodeToString(mac.Sum(nil))

	if got != want {
		t.Errorf("HashString mismatch:\n  got:  %s\n  want: %s", got, want)
	}
	if HashString("password", "other-key") == got {
		t.Error("different keys must produce different hashes")
	}
}
