package service

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// CredentialVerifier checks a supplied password against the stored
// credential value. Whether the stored value is a plaintext secret or a
// digest is a deployment choice, so verification is pluggable.
type CredentialVerifier interface {
	// Verify reports whether the supplied password matches the stored
	// credential value.
	Verify(supplied, stored string) bool
}

// PlainVerifier compares the supplied password to the stored value as-is.
type PlainVerifier struct{}

// Verify reports exact equality of supplied and stored.
func (PlainVerifier) Verify(supplied, stored string) bool {
	return supplied == stored
}

// SHA256Verifier hashes the supplied password and compares its hex digest
// to the stored value.
type SHA256Verifier struct{}

// Verify reports whether the stored value is the hex-encoded SHA-256
// digest of the supplied password.
func (SHA256Verifier) Verify(supplied, stored string) bool {
	sum := sha256.Sum256([]byte(supplied))
	return hex.EncodeToString(sum[:]) == stored
}

// VerifierFor returns the verifier matching a configured scheme name.
// Unknown schemes fail so a typo cannot silently weaken verification.
func VerifierFor(scheme string) (CredentialVerifier, error) {
	switch scheme {
	case "", "plain":
		return PlainVerifier{}, nil
	case "sha256":
		return SHA256Verifier{}, nil
	default:
		return nil, fmt.Errorf("unknown credential scheme %q", scheme)
	}
}

// LoadUsers reads a credential file of name,value lines into a username to
// credential map. Blank lines are skipped; a line without a comma or with
// an empty name is an error.
func LoadUsers(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	users := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ",")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed credential line %q", line)
		}
		users[name] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// DefaultUsers returns the built-in plaintext credential table used when no
// credential file is configured.
func DefaultUsers() map[string]string {
	return map[string]string{
		"user": "123456",
		"ali":  "@G00dPassw0rd",
	}
}
