// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters, OWASP-recommended. These are configuration, not
// per-call arguments; every digest embeds the parameters it was created
// with, so verification never depends on these constants.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher computes and verifies salted, memory-hard password digests.
type PasswordHasher interface {
	// Hash produces a self-describing digest of the password with a fresh
	// random salt. Hashing the same password twice yields different
	// digests.
	Hash(password string) (string, error)

	// Verify recomputes the digest and compares in constant time.
	// A mismatch is (false, nil); a digest that cannot be parsed is
	// (false, err) — corrupted stored data, not a wrong password.
	Verify(password, digest string) (bool, error)
}

// Argon2idHasher implements PasswordHasher using argon2id in PHC string
// format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces an argon2id digest of the password.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	digest := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return digest, nil
}

// Verify checks the password against a stored digest.
func (h *Argon2idHasher) Verify(password, digest string) (bool, error) {
	params, salt, key, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
}

// decodeDigest parses a PHC-format argon2id digest into its parameters,
// salt, and key. Any parse failure carries the AUTH_MALFORMED_DIGEST code.
func decodeDigest(digest string) (argon2Params, []byte, []byte, error) {
	var p argon2Params

	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").Errorf("digest does not have 6 fields")
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").
			Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").Wrap(err)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &threads); err != nil {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").Wrap(err)
	}
	// argon2.IDKey panics on zero iterations or memory rather than erroring.
	if p.time == 0 {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").Errorf("iteration count cannot be zero")
	}
	if p.memory == 0 {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").Errorf("memory size cannot be zero")
	}
	if threads == 0 || threads > 255 {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").
			Errorf("parallelism %d outside uint8 range", threads)
	}
	p.threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").Wrap(err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").Wrap(err)
	}
	if len(key) == 0 || len(key) > 1<<30 {
		return p, nil, nil, oops.Code("AUTH_MALFORMED_DIGEST").
			Errorf("invalid key length: %d", len(key))
	}

	return p, salt, key, nil
}
