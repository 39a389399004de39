package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fahmaliyi/hiho/session"
	"github.com/fahmaliyi/hiho/vault"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrUsage is returned for unknown commands and bad arguments.
var ErrUsage = errors.New("usage")

type command struct {
	run   func(a *App, ctx context.Context, args []string) error
	usage string
	// gated commands refuse to run while the session is locked and
	// refresh the idle clock when they succeed.
	gated bool
}

func commandTable() map[string]command {
	return map[string]command{
		"init":     {run: (*App).runInit, usage: "init                          create a new vault"},
		"add":      {run: (*App).runAdd, gated: true, usage: "add -n NAME [-u USER] [-p PASS|-ask] [-length N]"},
		"list":     {run: (*App).runList, gated: true, usage: "list [-show]                  list entries"},
		"show":     {run: (*App).runShow, gated: true, usage: "show NAME|N                   print one entry"},
		"copy":     {run: (*App).runCopy, gated: true, usage: "copy NAME|N                   copy a password to the clipboard"},
		"remove":   {run: (*App).runRemove, gated: true, usage: "remove [-y] NAME|N            delete an entry"},
		"edit":     {run: (*App).runEdit, gated: true, usage: "edit [-u USER] [-p PASS|-ask] [-length N] NAME|N"},
		"search":   {run: (*App).runSearch, gated: true, usage: "search [-show] QUERY          find entries by name"},
		"generate": {run: (*App).runGenerate, usage: "generate [-length N] [-simple] print a random password"},
		"export":   {run: (*App).runExport, gated: true, usage: "export [-format json|csv] FILE"},
		"import":   {run: (*App).runImport, gated: true, usage: "import [-format json|csv] FILE"},
		"passwd":   {run: (*App).runPasswd, gated: true, usage: "passwd                        change the master password"},
		"lock":     {run: (*App).runLock, usage: "lock                          lock the session"},
		"unlock":   {run: (*App).runUnlock, usage: "unlock                        unlock the session"},
		"autolock": {run: (*App).runAutoLock, gated: true, usage: "autolock [-timeout MIN|-off]  show or set the idle timeout"},
		"status":   {run: (*App).runStatus, usage: "status                        vault and session status"},
		"keyring":  {run: (*App).runKeyring, gated: true, usage: "keyring enable|disable        remember the master password"},
		"backup":   {run: (*App).runBackup, gated: true, usage: "backup [-y] push|pull DIR     copy the vault to or from DIR"},
		"tui":      {run: (*App).runTUI, gated: true, usage: "tui                           interactive browser"},
		"help":     {run: (*App).runHelp, usage: "help                          show this help"},
	}
}

var aliases = map[string]string{
	"ls":  "list",
	"rm":  "remove",
	"get": "show",
	"gen": "generate",
}

// Run executes one command. Gated commands first enforce the auto-lock
// policy and, on success, record activity.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return ErrUsage
	}

	name := args[0]
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	cmd, ok := commandTable()[name]
	if !ok {
		fmt.Fprintf(a.errOut, "Unknown command: %s\n\n", args[0])
		a.printUsage()
		return ErrUsage
	}

	if cmd.gated {
		st, err := a.session.Enforce()
		if err != nil {
			a.log.WithError(err).Warn("cannot read session state, treating as locked")
		}
		if st == session.Locked {
			fmt.Fprintln(a.errOut, "Session is locked. Run 'hiho unlock' first.")
			return session.ErrLocked
		}
	}

	a.log.WithField("command", name).Debug("running command")
	if err := cmd.run(a, ctx, args[1:]); err != nil {
		return err
	}

	if cmd.gated || name == "init" {
		if err := a.session.UpdateActivity(); err != nil {
			a.log.WithError(err).Warn("cannot record activity")
		}
	}
	return nil
}

func (a *App) printUsage() {
	table := commandTable()
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	sort.Strings(names)

	fmt.Fprintln(a.errOut, "Usage: hiho [-c FILE] [-d DIR] [-log-level LEVEL] <command> [args]")
	fmt.Fprintln(a.errOut)
	fmt.Fprintln(a.errOut, "Commands:")
	for _, n := range names {
		fmt.Fprintf(a.errOut, "  %s\n", table[n].usage)
	}
	fmt.Fprintln(a.errOut)
	fmt.Fprintf(a.errOut, "The master password is read from %s, the OS keyring, or a prompt.\n", PasswordEnv)
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// oneArg parses fs and requires exactly one positional argument.
func (a *App) oneArg(fs *flag.FlagSet, args []string, what string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", ErrUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(a.errOut, "Usage: hiho %s [flags] %s\n", fs.Name(), what)
		return "", ErrUsage
	}
	return fs.Arg(0), nil
}

func (a *App) confirm(prompt string) bool {
	fmt.Fprint(a.errOut, prompt)
	line, err := readLine(a.in)
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// save writes the vault and reports a failure to the user.
func (a *App) save(s *vault.Store) error {
	if err := s.Save(a.cfg.VaultPath()); err != nil {
		fmt.Fprintf(a.errOut, "Error saving vault: %v\n", err)
		return err
	}
	return nil
}

func (a *App) runHelp(_ context.Context, _ []string) error {
	a.printUsage()
	return nil
}

func (a *App) runInit(_ context.Context, args []string) error {
	fs := a.flagSet("init")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	path := a.cfg.VaultPath()
	if a.vaultExists() {
		fmt.Fprintf(a.errOut, "Vault already exists at %s\n", path)
		return vault.ErrVaultExists
	}

	pw, ok := passwordFromEnv()
	if !ok {
		var err error
		pw, err = readPasswordConfirm(a.readPassword, "New master password: ", "Confirm master password: ")
		if err != nil {
			return err
		}
	}

	s, err := vault.Open(pw, vault.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Create(path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Vault created at %s\n", path)
	return nil
}

// resolvePassword applies the -p/-ask/-length flags: an explicit password
// wins, -ask prompts, otherwise one is generated.
func (a *App) resolvePassword(explicit string, ask bool, length int) (string, bool, error) {
	if explicit != "" {
		return explicit, false, nil
	}
	if ask {
		pw, err := a.readPassword("Entry password: ")
		return pw, false, err
	}
	pw, err := GeneratePassword(length, false)
	return pw, true, err
}

func (a *App) runAdd(_ context.Context, args []string) error {
	var name, username, password string
	var ask bool
	var length int
	fs := a.flagSet("add")
	fs.StringVar(&name, "n", "", "entry name")
	fs.StringVar(&username, "u", "", "username")
	fs.StringVar(&password, "p", "", "password (generated when omitted)")
	fs.BoolVar(&ask, "ask", false, "prompt for the password")
	fs.IntVar(&length, "length", DefaultPasswordLength, "generated password length")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if name == "" && fs.NArg() == 1 {
		name = fs.Arg(0)
	}
	if name == "" {
		fmt.Fprintln(a.errOut, "Usage: hiho add -n NAME [-u USER] [-p PASS|-ask] [-length N]")
		return ErrUsage
	}

	s, err := a.openVault(true)
	if err != nil {
		return err
	}
	defer s.Close()

	pw, generated, err := a.resolvePassword(password, ask, length)
	if err != nil {
		return err
	}
	s.Add(vault.Entry{Name: name, Username: username, Password: pw})
	if err := a.save(s); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added %s\n", name)
	if generated {
		fmt.Fprintf(a.out, "Generated password: %s\n", pw)
	}
	return nil
}

func (a *App) runList(_ context.Context, args []string) error {
	var show bool
	fs := a.flagSet("list")
	fs.BoolVar(&show, "show", false, "print passwords")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	s, err := a.openVault(true)
	if err != nil {
		return err
	}
	defer s.Close()

	entries := s.List()
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Vault is empty")
		return nil
	}
	for i, e := range entries {
		a.printEntryLine(i, e, show)
	}
	return nil
}

func (a *App) printEntryLine(index int, e vault.Entry, show bool) {
	if show {
		fmt.Fprintf(a.out, "%d. %s: %s - %s\n", index+1, e.Name, e.Username, e.Password)
		return
	}
	fmt.Fprintf(a.out, "%d. %s: %s\n", index+1, e.Name, e.Username)
}

// lookup opens the vault and resolves target to an entry position.
func (a *App) lookup(target string) (*vault.Store, int, error) {
	s, err := a.openVault(true)
	if err != nil {
		return nil, 0, err
	}
	i, err := s.Resolve(target)
	if err != nil {
		s.Close()
		fmt.Fprintf(a.errOut, "No entry named %s\n", target)
		return nil, 0, err
	}
	return s, i, nil
}

func (a *App) runShow(_ context.Context, args []string) error {
	target, err := a.oneArg(a.flagSet("show"), args, "NAME|N")
	if err != nil {
		return err
	}
	s, i, err := a.lookup(target)
	if err != nil {
		return err
	}
	defer s.Close()

	e, _ := s.Get(i)
	fmt.Fprintf(a.out, "Name:     %s\nUsername: %s\nPassword: %s\n", e.Name, e.Username, e.Password)
	return nil
}

func (a *App) runCopy(ctx context.Context, args []string) error {
	target, err := a.oneArg(a.flagSet("copy"), args, "NAME|N")
	if err != nil {
		return err
	}
	s, i, err := a.lookup(target)
	if err != nil {
		return err
	}
	e, _ := s.Get(i)
	s.Close()

	if err := a.clipboard.WriteAll(e.Password); err != nil {
		return errors.Wrap(err, "cannot write clipboard")
	}
	fmt.Fprintf(a.out, "Password for %s copied to clipboard\n", e.Name)

	ttl := a.cfg.ClipboardTTL
	if ttl <= 0 {
		return nil
	}
	fmt.Fprintf(a.out, "Clearing in %s...\n", ttl)
	t := time.NewTimer(ttl)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
	a.clearClipboard(e.Password)
	return nil
}

// clearClipboard empties the clipboard unless something else was copied
// since.
func (a *App) clearClipboard(copied string) {
	cur, err := a.clipboard.ReadAll()
	if err == nil && cur != copied {
		return
	}
	if err := a.clipboard.WriteAll(""); err != nil {
		a.log.WithError(err).Warn("cannot clear clipboard")
	}
}

func (a *App) runRemove(_ context.Context, args []string) error {
	var yes bool
	fs := a.flagSet("remove")
	fs.BoolVar(&yes, "y", false, "do not ask for confirmation")
	target, err := a.oneArg(fs, args, "NAME|N")
	if err != nil {
		return err
	}
	s, i, err := a.lookup(target)
	if err != nil {
		return err
	}
	defer s.Close()

	e, _ := s.Get(i)
	if !yes && !a.confirm(fmt.Sprintf("Remove %s (%s)? [y/N]: ", e.Name, e.Username)) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	s.Remove(i)
	if err := a.save(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %s\n", e.Name)
	return nil
}

func (a *App) runEdit(_ context.Context, args []string) error {
	var username, password string
	var ask bool
	var length int
	fs := a.flagSet("edit")
	fs.StringVar(&username, "u", "", "new username")
	fs.StringVar(&password, "p", "", "new password")
	fs.BoolVar(&ask, "ask", false, "prompt for the new password")
	fs.IntVar(&length, "length", DefaultPasswordLength, "generated password length")
	target, err := a.oneArg(fs, args, "NAME|N")
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var newUser, newPass *string
	if set["u"] {
		newUser = &username
	}
	generated := false
	switch {
	case set["p"] || ask:
		pw, _, err := a.resolvePassword(password, ask, length)
		if err != nil {
			return err
		}
		newPass = &pw
	case set["length"] || newUser != nil:
		// a new username without a password rotates the password too
		pw, err := GeneratePassword(length, false)
		if err != nil {
			return err
		}
		newPass, generated = &pw, true
	}
	if newUser == nil && newPass == nil {
		fmt.Fprintln(a.errOut, "Nothing to change; pass -u, -p, -ask or -length")
		return ErrUsage
	}

	s, i, err := a.lookup(target)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Edit(i, newUser, newPass); err != nil {
		return err
	}
	if err := a.save(s); err != nil {
		return err
	}
	e, _ := s.Get(i)
	fmt.Fprintf(a.out, "Updated %s\n", e.Name)
	if generated {
		fmt.Fprintf(a.out, "Generated password: %s\n", e.Password)
	}
	return nil
}

func (a *App) runSearch(_ context.Context, args []string) error {
	var show bool
	fs := a.flagSet("search")
	fs.BoolVar(&show, "show", false, "print passwords")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(a.errOut, "Usage: hiho search [-show] QUERY")
		return ErrUsage
	}
	query := strings.Join(fs.Args(), " ")

	s, err := a.openVault(true)
	if err != nil {
		return err
	}
	defer s.Close()

	matches := s.Search(query)
	if len(matches) == 0 {
		fmt.Fprintf(a.out, "No entries match %q\n", query)
		return nil
	}
	for _, m := range matches {
		a.printEntryLine(m.Index, m.Entry, show)
	}
	return nil
}

func (a *App) runGenerate(_ context.Context, args []string) error {
	var length int
	var simple bool
	fs := a.flagSet("generate")
	fs.IntVar(&length, "length", DefaultPasswordLength, "password length")
	fs.BoolVar(&simple, "simple", false, "letters and digits only")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	pw, err := GeneratePassword(length, simple)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, pw)
	return nil
}

func (a *App) runExport(_ context.Context, args []string) error {
	var format string
	fs := a.flagSet("export")
	fs.StringVar(&format, "format", "", "json or csv (default from extension)")
	path, err := a.oneArg(fs, args, "FILE")
	if err != nil {
		return err
	}
	if format == "" {
		format = formatFromPath(path)
	}

	s, err := a.openVault(true)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Len() == 0 {
		fmt.Fprintln(a.out, "Vault is empty, nothing to export")
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, vault.FilePerm)
	if err != nil {
		return errors.Wrap(err, "cannot create export file")
	}
	if err := writeEntries(f, s.List(), format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "cannot write export file")
	}
	a.log.WithFields(logrus.Fields{"event": "vault_exported", "entries": s.Len(), "format": format}).Info("vault exported")
	fmt.Fprintf(a.out, "Exported %d entries to %s\n", s.Len(), path)
	fmt.Fprintln(a.errOut, "Warning: the export file is not encrypted")
	return nil
}

func (a *App) runImport(_ context.Context, args []string) error {
	var format string
	fs := a.flagSet("import")
	fs.StringVar(&format, "format", "", "json or csv (default from extension)")
	path, err := a.oneArg(fs, args, "FILE")
	if err != nil {
		return err
	}
	if format == "" {
		format = formatFromPath(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "cannot open import file")
	}
	entries, err := readEntries(f, format)
	f.Close()
	if err != nil {
		return err
	}

	s, err := a.openVault(true)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, e := range entries {
		s.Add(e)
	}
	if err := a.save(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d entries\n", len(entries))
	return nil
}

func (a *App) runPasswd(_ context.Context, args []string) error {
	if err := a.flagSet("passwd").Parse(args); err != nil {
		return ErrUsage
	}
	if !a.vaultExists() {
		fmt.Fprintln(a.errOut, "No vault yet; run 'hiho init'")
		return ErrUsage
	}

	current, err := a.readPassword("Current master password: ")
	if err != nil {
		return err
	}
	s, err := a.loadVault(current)
	if err != nil {
		return err
	}
	defer s.Close()

	next, err := readPasswordConfirm(a.readPassword, "New master password: ", "Confirm new master password: ")
	if err != nil {
		return err
	}
	if err := s.ChangePassword(next); err != nil {
		return err
	}
	if err := a.save(s); err != nil {
		return err
	}

	id := a.keyringID()
	if _, err := a.keyring.Get(id); err == nil {
		if err := a.keyring.Set(id, next); err != nil {
			a.log.WithError(err).Warn("cannot update keyring")
			fmt.Fprintln(a.errOut, "Warning: keyring still holds the old password; run 'hiho keyring disable'")
		}
	}
	fmt.Fprintln(a.out, "Master password changed")
	return nil
}

func (a *App) runLock(_ context.Context, args []string) error {
	if err := a.flagSet("lock").Parse(args); err != nil {
		return ErrUsage
	}
	if err := a.session.Lock(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Session locked")
	return nil
}

func (a *App) runUnlock(_ context.Context, args []string) error {
	if err := a.flagSet("unlock").Parse(args); err != nil {
		return ErrUsage
	}
	locked, err := a.session.IsLocked()
	if err != nil {
		a.log.WithError(err).Warn("cannot read lock marker")
	}
	if !locked {
		fmt.Fprintln(a.out, "Session is not locked")
		return nil
	}

	pw, err := a.masterPassword("Master password: ", false)
	if err != nil {
		return err
	}
	var loadErr error
	err = a.session.Unlock(func() error {
		if !a.vaultExists() {
			return nil
		}
		s, err := a.loadVault(pw)
		if err != nil {
			loadErr = err
			return err
		}
		s.Close()
		return nil
	})
	if errors.Is(loadErr, vault.ErrVaultBusy) {
		fmt.Fprintln(a.errOut, "Vault is in use by another process; try again")
		return loadErr
	}
	if errors.Is(err, session.ErrUnlockRejected) {
		fmt.Fprintln(a.errOut, "Wrong master password")
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Session unlocked")
	return nil
}

func (a *App) runAutoLock(_ context.Context, args []string) error {
	var timeout int
	var off bool
	fs := a.flagSet("autolock")
	fs.IntVar(&timeout, "timeout", -1, "idle minutes before locking")
	fs.BoolVar(&off, "off", false, "disable auto-lock")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	switch {
	case off:
		if err := a.session.SetTimeout(nil); err != nil {
			return err
		}
	case timeout >= 0:
		m := uint64(timeout)
		if err := a.session.SetTimeout(&m); err != nil {
			return err
		}
	}

	cfg, err := a.session.Config()
	if err != nil {
		return err
	}
	a.printAutoLock(cfg)
	return nil
}

func (a *App) printAutoLock(cfg *session.Config) {
	if !cfg.Enabled() {
		fmt.Fprintln(a.out, "Auto-lock: disabled")
		return
	}
	fmt.Fprintf(a.out, "Auto-lock: after %d minutes idle\n", *cfg.TimeoutMinutes)
}

func (a *App) runStatus(_ context.Context, args []string) error {
	if err := a.flagSet("status").Parse(args); err != nil {
		return ErrUsage
	}

	path := a.cfg.VaultPath()
	if info, err := os.Stat(path); err == nil {
		fmt.Fprintf(a.out, "Vault:    %s (%d bytes, modified %s)\n", path, info.Size(), info.ModTime().Format(time.RFC3339))
	} else {
		fmt.Fprintf(a.out, "Vault:    %s (not created)\n", path)
	}

	st, err := a.session.Enforce()
	if err != nil {
		a.log.WithError(err).Warn("cannot read session state")
	}
	fmt.Fprintf(a.out, "Session:  %s\n", st)

	if cfg, err := a.session.Config(); err == nil {
		a.printAutoLock(cfg)
	}

	if _, err := a.keyring.Get(a.keyringID()); err == nil {
		fmt.Fprintln(a.out, "Keyring:  enabled")
	} else {
		fmt.Fprintln(a.out, "Keyring:  disabled")
	}
	return nil
}

func (a *App) runKeyring(_ context.Context, args []string) error {
	action, err := a.oneArg(a.flagSet("keyring"), args, "enable|disable")
	if err != nil {
		return err
	}
	id := a.keyringID()

	switch action {
	case "enable":
		if !a.vaultExists() {
			fmt.Fprintln(a.errOut, "No vault yet; run 'hiho init'")
			return ErrUsage
		}
		pw, err := a.masterPassword("Master password: ", false)
		if err != nil {
			return err
		}
		s, err := a.loadVault(pw)
		if err != nil {
			return err
		}
		s.Close()
		if err := a.keyring.Set(id, pw); err != nil {
			return errors.Wrap(err, "cannot store password in keyring")
		}
		fmt.Fprintln(a.out, "Master password stored in keyring")
	case "disable":
		if err := a.keyring.Delete(id); err != nil {
			return errors.Wrap(err, "cannot remove password from keyring")
		}
		fmt.Fprintln(a.out, "Master password removed from keyring")
	default:
		fmt.Fprintln(a.errOut, "Usage: hiho keyring enable|disable")
		return ErrUsage
	}
	return nil
}

func (a *App) runBackup(_ context.Context, args []string) error {
	var yes bool
	fs := a.flagSet("backup")
	fs.BoolVar(&yes, "y", false, "overwrite the local vault without asking")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(a.errOut, "Usage: hiho backup [-y] push|pull DIR")
		return ErrUsage
	}

	var syncer vault.Syncer = &vault.DirSyncer{Dir: fs.Arg(1)}
	path := a.cfg.VaultPath()

	switch fs.Arg(0) {
	case "push":
		if err := syncer.Push(path); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Vault copied to %s\n", fs.Arg(1))
	case "pull":
		if a.vaultExists() && !yes && !a.confirm("Overwrite the local vault? [y/N]: ") {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
		if err := syncer.Pull(path); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Vault restored from %s\n", fs.Arg(1))
	default:
		fmt.Fprintln(a.errOut, "Usage: hiho backup [-y] push|pull DIR")
		return ErrUsage
	}
	return nil
}

func (a *App) runTUI(_ context.Context, args []string) error {
	if err := a.flagSet("tui").Parse(args); err != nil {
		return ErrUsage
	}
	s, err := a.openVault(true)
	if err != nil {
		return err
	}
	defer s.Close()

	return RunTUI(s, TUIOptions{
		Save:         func() error { return s.Save(a.cfg.VaultPath()) },
		Touch:        a.session.UpdateActivity,
		Clipboard:    a.clipboard,
		ClipboardTTL: a.cfg.ClipboardTTL,
	})
}
