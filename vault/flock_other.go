//go:build !unix

package vault

// lockFile is a no-op where flock(2) is unavailable.
func lockFile(string, bool) (func(), error) {
	return func() {}, nil
}
