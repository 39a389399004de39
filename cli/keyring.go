package cli

import (
	"github.com/zalando/go-keyring"
)

const keyringService = "hiho"

// Keyring stores the master password in the OS credential store, keyed by
// vault path.
type Keyring interface {
	Get(vaultPath string) (string, error)
	Set(vaultPath, password string) error
	Delete(vaultPath string) error
}

type osKeyring struct{}

func (osKeyring) Get(vaultPath string) (string, error) {
	return keyring.Get(keyringService, vaultPath)
}

func (osKeyring) Set(vaultPath, password string) error {
	return keyring.Set(keyringService, vaultPath, password)
}

func (osKeyring) Delete(vaultPath string) error {
	return keyring.Delete(keyringService, vaultPath)
}
