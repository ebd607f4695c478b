package chain

import "testing"

func TestChainFingerprintDeterministic(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	c.Learn("b", "2")

	f1 := c.ChainFingerprint()
	f2 := c.ChainFingerprint()
	if f1 != f2 {
		t.Error("ChainFingerprint should be deterministic for an unchanged chain")
	}
}

func TestChainFingerprintChangesWithContent(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	before := c.ChainFingerprint()

	c.Learn("b", "2")
	after := c.ChainFingerprint()

	if before == after {
		t.Error("ChainFingerprint should change when a block is added")
	}
}

func TestChainFingerprintIgnoresInvalidBlocks(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	c.Learn("b", "2")
	before := c.ChainFingerprint()

	c.Memory[1].Valid = false
	after := c.ChainFingerprint()

	if before == after {
		t.Error("invalidating a block should change the fingerprint (it's now excluded)")
	}

	c.Memory[1].Valid = true
	restored := c.ChainFingerprint()
	if restored != before {
		t.Error("restoring validity should reproduce the original fingerprint")
	}
}

func TestCompareChainsIdentical(t *testing.T) {
	a := New(newTestDeviceID())
	a.Learn("x", "y")
	b := a.Clone()

	if diff := CompareChains(a, b); diff != 0 {
		t.Errorf("CompareChains = %d, want 0 for identical chains", diff)
	}
}

func TestCompareChainsDifferentLengths(t *testing.T) {
	a := New(newTestDeviceID())
	a.Learn("x", "y")
	// Clone so slot 0 carries the same hash: Learn's nonce would give a
	// separately learned ("x", "y") block a different one.
	b := a.Clone()
	b.Learn("extra", "block")

	if diff := CompareChains(a, b); diff != 1 {
		t.Errorf("CompareChains = %d, want 1", diff)
	}
}
