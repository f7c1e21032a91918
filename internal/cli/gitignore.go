package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// addGitignoreEntry appends dir to an existing .gitignore under root. Roots
// without a .gitignore are left alone.
func addGitignoreEntry(root, dir string) (bool, error) {
	entry := normalizeGitignoreEntry(dir)
	if entry == "" {
		return false, fmt.Errorf("gitignore entry is empty")
	}

	gitignorePath := filepath.Join(root, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read .gitignore: %w", err)
	}

	for _, line := range strings.Split(string(existing), "\n") {
		line = strings.TrimSpace(line)
		if line == entry || line == strings.TrimSuffix(entry, "/") || line == "/"+entry {
			return false, nil
		}
	}

	updated := string(existing)
	if len(updated) > 0 && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += entry + "\n"
	if err := os.WriteFile(gitignorePath, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("write .gitignore: %w", err)
	}
	return true, nil
}

func normalizeGitignoreEntry(dir string) string {
	entry := filepath.ToSlash(strings.TrimSpace(dir))
	entry = strings.Trim(entry, "/")
	if entry == "" || entry == "." {
		return ""
	}
	return entry + "/"
}
