package vault

import "github.com/pkg/errors"

const (
	KeyLen  = 32
	IVLen   = 16
	AppSalt = "hiho_salt_2024"

	// lengthPrefixLen is the size of the ciphertext length prefix in the
	// on-disk envelope.
	lengthPrefixLen = 8
)

var (
	ErrKeyDerivation  = errors.New("vault: key derivation failed")
	ErrDecrypt        = errors.New("vault: decryption failed (wrong password or corrupted file)")
	ErrMalformedVault = errors.New("vault: malformed vault file")
	ErrVaultOpen      = errors.New("vault: cannot open vault")
	ErrEntryNotFound  = errors.New("vault: entry not found")
	ErrVaultExists    = errors.New("vault: vault file already exists")
	ErrVaultBusy      = errors.New("vault: vault file is in use by another process")
)

// Entry is one credential record. Entries have no identity beyond their
// position in the vault.
type Entry struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Match pairs an entry with its current 0-based position.
type Match struct {
	Index int
	Entry Entry
}

// Envelope is the unit written to disk: a random IV and the AES-256-CBC
// ciphertext of the serialized entry list.
type Envelope struct {
	IV         [IVLen]byte
	Ciphertext []byte
	// Trailing counts bytes found after the IV on read. They are ignored
	// and never written back.
	Trailing int
}

// KDFParams are the Argon2id cost parameters.
type KDFParams struct {
	Time, Memory uint32
	Threads      uint8
}
