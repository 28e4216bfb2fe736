// Package password hashes and verifies credentials with Argon2id.
//
// Hashes are self-describing PHC strings:
//
//	$argon2id$v=19$m=<KiB>,t=<iterations>,p=<lanes>$<salt b64>$<key b64>
//
// Verify recovers the parameters from the stored string, so costs can be
// tuned over time without invalidating existing hashes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const saltLen = 16

// Params control the cost of the Argon2id key derivation.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLen      uint32
}

// DefaultParams follow the RFC 9106 low-memory recommendation.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 1,
	KeyLen:      32,
}

var errEmptyPassword = errors.New("password: empty password")

// Hash derives a key from plain with the given params and returns the PHC
// encoding. The salt is freshly random per call.
func Hash(p Params, plain string) (string, error) {
	if plain == "" {
		return "", errEmptyPassword
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: read salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plain matches the stored PHC hash. It returns false
// (never an error) for malformed hashes or unrecognized schemes, so a
// corrupted stored hash behaves exactly like a wrong password.
func Verify(plain, encoded string) bool {
	// Leading "$" yields an empty first segment:
	// ["", "argon2id", "v=19", "m=..,t=..,p=..", salt, key]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iters, par uint32
	if n, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iters, &par); err != nil || n != 3 {
		return false
	}
	if par == 0 || par > 255 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	storedKey, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(storedKey) == 0 {
		return false
	}

	key := argon2.IDKey([]byte(plain), salt, iters, memory, uint8(par), uint32(len(storedKey)))
	return subtle.ConstantTimeCompare(key, storedKey) == 1
}
