package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// Argon2 accepts salts between these lengths; the bounds match the
// base64 salt limits of the PHC string format.
const (
	minSaltLen = 8
	maxSaltLen = 48
)

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DefaultKDFParams are the Argon2id defaults (19 MiB, 2 passes, 1 lane).
func DefaultKDFParams() *KDFParams { return &KDFParams{Time: 2, Memory: 19 * 1024, Threads: 1} }

// DeriveKey turns a master password into a 32-byte key with Argon2id
// (version 0x13) and the default cost parameters. The same password and
// salt always produce the same key.
func DeriveKey(password, salt string) ([]byte, error) {
	return deriveKey([]byte(password), []byte(salt), DefaultKDFParams())
}

func deriveKey(password, salt []byte, p *KDFParams) ([]byte, error) {
	if len(salt) < minSaltLen || len(salt) > maxSaltLen {
		return nil, errors.Wrapf(ErrKeyDerivation, "salt length %d out of range [%d, %d]", len(salt), minSaltLen, maxSaltLen)
	}
	if p == nil || p.Time == 0 || p.Threads == 0 || p.Memory < 8*uint32(p.Threads) {
		return nil, errors.Wrap(ErrKeyDerivation, "invalid argon2 parameters")
	}

	key := argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, KeyLen)
	if len(key) < KeyLen {
		zero(key)
		return nil, errors.Wrapf(ErrKeyDerivation, "derived %d bytes, need %d", len(key), KeyLen)
	}
	return key, nil
}

// Encrypt pads plaintext with PKCS#7 and encrypts it with AES-256-CBC under
// a fresh random IV.
func Encrypt(plaintext, key []byte) (*Envelope, error) {
	if len(key) != KeyLen {
		return nil, errors.Errorf("vault: invalid key length %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create cipher")
	}

	iv, err := randBytes(IVLen)
	if err != nil {
		return nil, errors.Wrap(err, "cannot generate iv")
	}

	env := &Envelope{}
	copy(env.IV[:], iv)

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	env.Ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, env.IV[:]).CryptBlocks(env.Ciphertext, padded)
	zero(padded)

	return env, nil
}

// Decrypt reverses Encrypt. Any failure, including invalid padding, is
// reported as ErrDecrypt: without an authentication tag a wrong key and a
// damaged ciphertext cannot be told apart.
func Decrypt(env *Envelope, key []byte) ([]byte, error) {
	if env == nil {
		return nil, errors.Wrap(ErrDecrypt, "nil envelope")
	}
	if len(key) != KeyLen {
		return nil, errors.Wrapf(ErrDecrypt, "invalid key length %d", len(key))
	}
	if len(env.Ciphertext) == 0 || len(env.Ciphertext)%aes.BlockSize != 0 {
		return nil, errors.Wrapf(ErrDecrypt, "ciphertext length %d is not a positive multiple of %d", len(env.Ciphertext), aes.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(ErrDecrypt, err.Error())
	}

	buf := make([]byte, len(env.Ciphertext))
	cipher.NewCBCDecrypter(block, env.IV[:]).CryptBlocks(buf, env.Ciphertext)

	plaintext, err := pkcs7Unpad(buf, aes.BlockSize)
	if err != nil {
		zero(buf)
		return nil, errors.Wrap(ErrDecrypt, err.Error())
	}
	return plaintext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
