// Package crypto provides the cipher capability used to protect secure configuration values.
// This package defines interfaces that can be implemented by different crypto backends.
package crypto

// Cipher encrypts and decrypts secure values.
type Cipher interface {
	// Encrypt returns the cipher text envelope for plainText.
	Encrypt(plainText string) (string, error)

	// Decrypt returns the plain text held by a cipher text envelope.
	// Returns error if the envelope is malformed or was produced with another key.
	Decrypt(cipherText string) (string, error)
}

// Decrypter is the read-only subset of Cipher used by consumers that never encrypt.
type Decrypter interface {
	// Decrypt returns the plain text held by a cipher text envelope.
	Decrypt(cipherText string) (string, error)
}
