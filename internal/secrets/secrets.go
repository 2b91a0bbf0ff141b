// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key and the trimmed contents
// are the value. Values set through config or the environment take
// precedence; these files only fill gaps.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Recognized secret files.
const (
	SerpAPIKey = "serpapi-key"
	APIToken   = "api-token"
)

// maxSecretSize caps a secret file; anything larger is not a credential.
const maxSecretSize = 4 << 10

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable or oversized files produce a warning on stderr and are skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)
		if info, err := entry.Info(); err == nil && info.Size() > maxSecretSize {
			fmt.Fprintf(os.Stderr, "warning: secret %s is larger than %d bytes, skipped\n", name, maxSecretSize)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
