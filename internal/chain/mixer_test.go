package chain

import "testing"

func TestDeviceSaltStableAcrossCalls(t *testing.T) {
	// The nonce is time-based, so two calls never produce identical bytes,
	// but the salt derivation itself must be stable across calls.
	a := deviceSalt()
	b := deviceSalt()
	if a != b {
		t.Errorf("deviceSalt() not stable: %d != %d", a, b)
	}
}

func TestMixVariesByInput(t *testing.T) {
	h1 := Mix("ping", "pong")
	h2 := Mix("ping2", "pong")
	if h1 == h2 {
		t.Error("Mix should differ for different input")
	}
}

func TestMixProducesFullWidthHash(t *testing.T) {
	h := Mix("hello", "world")
	allZero := true
	for _, b := range h {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("Mix returned an all-zero hash")
	}
	if len(h) != HashSize {
		t.Errorf("len(h) = %d, want %d", len(h), HashSize)
	}
}
