// Package fs provides file system utilities for the AskForm application.
// The vault only ever holds settings and logs; prompts and replies are not written to disk.
package fs

import (
	"fmt"
	"os"
)

// EnsureVaultExists checks that the vault directory exists and is writable,
// creating it with 0755 permissions when it is missing.
//
// Example:
//
//	if err := fs.EnsureVaultExists(config.VaultPath()); err != nil {
//	    log.Fatalf("Failed to initialize vault: %v", err)
//	}
func EnsureVaultExists(path string) error {
	if path == "" {
		return fmt.Errorf("vault path is empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check vault directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("vault path exists but is not a directory: %s", path)
	}
	if info.Mode().Perm()&0200 == 0 {
		return fmt.Errorf("insufficient permissions to write to vault directory: %s", path)
	}

	return nil
}
