package chain

import "testing"

func TestSignAndVerifyRoundTrip(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	b := &c.Memory[0]

	Sign(b, []byte("secret-key"))
	if b.Signature == [SignatureSize]byte{} {
		t.Fatal("Sign left Signature zeroed")
	}
	if !VerifySignature(b, []byte("secret-key")) {
		t.Error("VerifySignature should accept a signature produced by Sign with the same key")
	}
}

func TestVerifySignatureRejectsWrongKey(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	b := &c.Memory[0]

	Sign(b, []byte("right-key"))
	if VerifySignature(b, []byte("wrong-key")) {
		t.Error("VerifySignature should reject a mismatched key")
	}
}

func TestSignWithEmptyKeyUsesDefault(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	b := &c.Memory[0]

	Sign(b, nil)
	if !VerifySignature(b, nil) {
		t.Error("VerifySignature should accept a signature produced with the default key")
	}
	if VerifySignature(b, []byte("something-else")) {
		t.Error("default-key signature should not verify against an explicit key")
	}
}

func TestVerifySignatureRejectsTamperedHash(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	b := &c.Memory[0]

	Sign(b, []byte("k"))
	b.Hash[0] ^= 0xFF

	if VerifySignature(b, []byte("k")) {
		t.Error("VerifySignature should reject a signature computed for a different hash")
	}
}
