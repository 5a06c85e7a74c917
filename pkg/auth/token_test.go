package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestTokenLifecycle(t *testing.T) {
	keyring.MockInit()

	// nothing saved yet
	token, err := GetToken()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, SaveToken("test-token"))

	token, err = GetToken()
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)

	require.NoError(t, DeleteToken())

	token, err = GetToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSaveToken_Empty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SaveToken(""))
}

func TestDeleteToken_NotSaved(t *testing.T) {
	keyring.MockInit()
	assert.NoError(t, DeleteToken())
}
