package ports

// TextCipher encrypts agreement text before persistence and decrypts it on
// read. Decrypt must surface domain.ErrDecryptionFailed for ciphertext that
// cannot be authenticated (wrong or rotated key), never garbage plaintext.
type TextCipher interface {
	Encrypt(plaintext string) ([]byte, error)
	Decrypt(ciphertext []byte) (string, error)
}
