package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// CredentialStore serializes the current user record to disk. This is the
// single durable-storage entry of the client: written on login and cleared
// on logout, read back for display before the backend confirms the session.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a store backed by the given file path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Load reads the stored user record. A missing file returns (nil, nil).
func (c *CredentialStore) Load() (*User, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Save writes the user record with owner-only permissions.
func (c *CredentialStore) Save(user *User) error {
	if user == nil {
		return c.Clear()
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

// Clear removes the stored record. Clearing an empty store is not an error.
func (c *CredentialStore) Clear() error {
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
