package chain

import "encoding/hex"

const defaultSignKey = "default-key"

func keyString(key []byte) string {
	if len(key) == 0 {
		return defaultSignKey
	}
	n := len(key)
	if n > HashSize {
		n = HashSize
	}
	return hex.EncodeToString(key[:n])
}

// Sign sets block.Signature by re-running the mixer, with a fixed nonce so
// signing is reproducible, over the block's hash (as a hex string) and a
// key string (hex of key, or "default-key" when key is empty).
func Sign(b *Block, key []byte) {
	hashStr := hex.EncodeToString(b.Hash[:])
	b.Signature = mixDeterministic(hashStr, keyString(key))
}

// VerifySignature reports whether block.Signature matches what Sign would
// produce for the given key.
func VerifySignature(b *Block, key []byte) bool {
	hashStr := hex.EncodeToString(b.Hash[:])
	expected := mixDeterministic(hashStr, keyString(key))
	return expected == b.Signature
}
