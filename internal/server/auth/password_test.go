package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// cheap parameters keep the derivation fast in tests
func testParams() PasswordParams {
	return PasswordParams{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(testParams())

	encoded := h.Hash("correct horse battery staple")
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	assert.True(t, h.Verify("correct horse battery staple", encoded))
	assert.False(t, h.Verify("correct horse battery stapl", encoded))
	assert.False(t, h.Verify("", encoded))
}

func TestPasswordHasher_SaltsAreUnique(t *testing.T) {
	h := NewPasswordHasher(testParams())

	first := h.Hash("secret")
	second := h.Hash("secret")

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret", first))
	assert.True(t, h.Verify("secret", second))
}

func TestPasswordHasher_VerifyUsesEmbeddedParams(t *testing.T) {
	weak := NewPasswordHasher(testParams())
	encoded := weak.Hash("secret")

	// a hasher configured with different costs must still verify old credentials
	strong := NewPasswordHasher(PasswordParams{Memory: 16 * 1024, Time: 2, Parallelism: 2, SaltLength: 16, KeyLength: 32})
	assert.True(t, strong.Verify("secret", encoded))
}

func TestPasswordHasher_MalformedCredential(t *testing.T) {
	h := NewPasswordHasher(testParams())

	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "plaintext", encoded: "secret"},
		{name: "wrong algorithm", encoded: "$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA"},
		{name: "wrong version", encoded: "$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA"},
		{name: "missing sections", encoded: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA"},
		{name: "bad cost parameters", encoded: "$argon2id$v=19$m=what$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA"},
		{name: "zero cost", encoded: "$argon2id$v=19$m=0,t=0,p=0$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA"},
		{name: "bad salt base64", encoded: "$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA"},
		{name: "bad hash base64", encoded: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, h.Verify("secret", tt.encoded))
		})
	}
}
