package Token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)

	identity := Identity{UserID: 42, Phone: "+911234567890", Role: "PROVIDER"}
	tokenString, err := maker.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	got, err := maker.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestVerifyExpiredToken(t *testing.T) {
	maker := NewMaker("test-secret", -time.Minute)

	tokenString, err := maker.Generate(Identity{UserID: 1, Role: "ADMIN"})
	require.NoError(t, err)

	_, err = maker.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)
	other := NewMaker("other-secret", time.Hour)

	tokenString, err := maker.Generate(Identity{UserID: 1, Role: "ADMIN"})
	require.NoError(t, err)

	_, err = other.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		_, err := maker.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)

	tokenString, err := maker.Generate(Identity{UserID: 1, Role: "PATIENT"})
	require.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"
	_, err = maker.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
