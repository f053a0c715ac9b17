package hash

// Hash is the contract for one-way hashing of secrets.
type Hash interface {
	// Hash returns the hash of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the stored hash.
	Verify(hashed, plaintext string) bool
}
