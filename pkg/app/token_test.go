package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := NewTokenManager(TokenConfig{
		SecretKey: "test-secret-key",
		Expiry:    time.Hour,
	})

	token, err := tm.Generate(42, "turtle")
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	user, err := tm.Parse(token)
	assert.Nil(t, err)
	assert.Equal(t, int64(42), user.UID)
	assert.Equal(t, "turtle", user.Username)
}

func TestTokenManager_WrongKey(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "key-a"})
	other := NewTokenManager(TokenConfig{SecretKey: "key-b"})

	token, err := tm.Generate(1, "u")
	assert.Nil(t, err)

	_, err = other.Parse(token)
	assert.NotNil(t, err)

	assert.NotNil(t, other.Validate(token))
	assert.Nil(t, tm.Validate(token))
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(TokenConfig{
		SecretKey: "test-secret-key",
		Expiry:    -time.Minute,
	})

	token, err := tm.Generate(1, "u")
	assert.Nil(t, err)

	_, err = tm.Parse(token)
	assert.NotNil(t, err)
}
