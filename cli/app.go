package cli

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/fahmaliyi/hiho/session"
	"github.com/fahmaliyi/hiho/vault"
	"github.com/sirupsen/logrus"
)

// App carries the collaborators every command needs. The zero value is not
// usable; construct with NewApp.
type App struct {
	cfg     *Config
	log     *logrus.Logger
	session *session.Manager

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	readPassword func(prompt string) (string, error)
	keyring      Keyring
	clipboard    Clipboard
}

type AppOption func(*App)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) AppOption {
	return func(a *App) {
		a.in = bufio.NewReader(in)
		a.out = out
		a.errOut = errOut
	}
}

// WithPasswordReader replaces the interactive password prompt.
func WithPasswordReader(fn func(prompt string) (string, error)) AppOption {
	return func(a *App) { a.readPassword = fn }
}

func WithKeyring(k Keyring) AppOption {
	return func(a *App) { a.keyring = k }
}

func WithClipboard(c Clipboard) AppOption {
	return func(a *App) { a.clipboard = c }
}

// WithSession replaces the file-backed session manager.
func WithSession(m *session.Manager) AppOption {
	return func(a *App) { a.session = m }
}

func NewApp(cfg *Config, log *logrus.Logger, opts ...AppOption) *App {
	a := &App{
		cfg:       cfg,
		log:       log,
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		errOut:    os.Stderr,
		keyring:   osKeyring{},
		clipboard: systemClipboard{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.session == nil {
		a.session = session.NewFileManager(cfg.DataDir, session.WithLogger(log))
	}
	if a.readPassword == nil {
		a.readPassword = func(prompt string) (string, error) {
			return ReadPassword(a.errOut, a.in, prompt)
		}
	}
	return a
}

func (a *App) keyringID() string {
	p := a.cfg.VaultPath()
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// masterPassword looks in HIHO_PASSWORD, then (if allowed) the OS keyring,
// then prompts.
func (a *App) masterPassword(prompt string, allowKeyring bool) (string, error) {
	if pw, ok := passwordFromEnv(); ok {
		return pw, nil
	}
	if allowKeyring {
		if pw, err := a.keyring.Get(a.keyringID()); err == nil && pw != "" {
			a.log.Debug("using master password from keyring")
			return pw, nil
		}
	}
	return a.readPassword(prompt)
}

// openVault derives the key and loads the vault file, if any.
func (a *App) openVault(allowKeyring bool) (*vault.Store, error) {
	pw, err := a.masterPassword("Master password: ", allowKeyring)
	if err != nil {
		return nil, err
	}
	return a.loadVault(pw)
}

func (a *App) loadVault(password string) (*vault.Store, error) {
	s, err := vault.Open(password, vault.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	if err := s.Load(a.cfg.VaultPath()); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (a *App) vaultExists() bool {
	_, err := os.Stat(a.cfg.VaultPath())
	return err == nil
}
