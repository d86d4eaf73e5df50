package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the shared bootstrap credential accepted until a
// per-user password is registered.
const DefaultPassword = "news2025"

// Authenticator checks credentials against a JSON file of
// username -> bcrypt hash. It is the credential-check collaborator the
// pipeline's callers consume; the core itself never touches it.
type Authenticator struct {
	path        string
	defaultHash []byte
}

func New(path string) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing default credential: %w", err)
	}
	return &Authenticator{path: path, defaultHash: hash}, nil
}

// Verify reports whether the password is valid for the username. Users
// without a registered hash are checked against the shared default.
func (a *Authenticator) Verify(username, password string) bool {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false
	}
	users, err := a.load()
	if err != nil {
		return false
	}
	hash, ok := users[username]
	if !ok {
		return bcrypt.CompareHashAndPassword(a.defaultHash, []byte(password)) == nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SetPassword registers or replaces a user's password.
func (a *Authenticator) SetPassword(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	users, err := a.load()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	users[username] = string(hash)
	return a.save(users)
}

func (a *Authenticator) load() (map[string]string, error) {
	users := map[string]string{}
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return users, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parsing users file: %w", err)
	}
	return users, nil
}

func (a *Authenticator) save(users map[string]string) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return err
	}
	tmp := a.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, a.path)
}
