// Package auth implements the credential and access authority: one-way
// password hashing, signed identity tokens, and bearer-header resolution.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/rosvit/journal-backend/internal/common"
)

// PasswordParams are the Argon2id cost parameters. They are loaded once from
// configuration; the values embedded in each stored credential take precedence
// during verification, so parameters can be raised without invalidating
// existing credentials.
type PasswordParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultPasswordParams follows the argon2 package recommendation for
// interactive logins.
func DefaultPasswordParams() PasswordParams {
	return PasswordParams{
		Memory:      64 * 1024,
		Time:        1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// PasswordHasher derives and verifies Argon2id credentials encoded in PHC
// string format: $argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>. The encoded
// form carries everything verification needs, so nothing about the parameters
// has to be stored elsewhere.
type PasswordHasher struct {
	params PasswordParams
}

func NewPasswordHasher(params PasswordParams) *PasswordHasher {
	return &PasswordHasher{params: params}
}

// Hash derives a salted Argon2id credential for password. Each call draws a
// fresh random salt, so hashing the same password twice yields different
// credentials.
func (h *PasswordHasher) Hash(password string) string {
	salt := common.GenerateRandByteArray(int(h.params.SaltLength))

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := argon2.IDKey(pw, salt, h.params.Time, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// Verify recomputes the hash of password using the parameters embedded in
// encoded and compares the result in constant time. A malformed stored
// credential is treated as "no match" and never as an error, so callers can
// return the same rejection for every bad-credential case.
func (h *PasswordHasher) Verify(password, encoded string) bool {
	parsed, err := parseCredential(encoded)
	if err != nil {
		return false
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := argon2.IDKey(pw, parsed.salt, parsed.time, parsed.memory, parsed.parallelism, uint32(len(parsed.hash)))
	return subtle.ConstantTimeCompare(key, parsed.hash) == 1
}

type parsedCredential struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parseCredential(encoded string) (*parsedCredential, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, errors.New("not an argon2id credential")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.New("missing version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	p := &parsedCredential{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.parallelism); err != nil {
		return nil, errors.New("bad cost parameters")
	}
	if p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return nil, errors.New("zero cost parameter")
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return nil, errors.New("bad salt encoding")
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.hash) == 0 {
		return nil, errors.New("bad hash encoding")
	}

	return p, nil
}
