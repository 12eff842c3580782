package cryptox_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/fpsgroup/authentic/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("produces hex of the requested size", func(t *testing.T) {
		token, err := cryptox.GenerateToken(cryptox.TokenSize128)
		require.NoError(t, err)
		require.Len(t, token, 32)

		raw, err := hex.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, cryptox.TokenSize128)
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)

		_, err = cryptox.GenerateToken(-4)
		require.Error(t, err)
	})

	t.Run("two tokens never collide", func(t *testing.T) {
		a, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		b, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}

func TestGeneratePrefixedToken(t *testing.T) {
	t.Parallel()

	token, err := cryptox.GeneratePrefixedToken("consent", cryptox.TokenSize128)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "consent_"))

	// The part after the prefix must still be full-entropy hex.
	raw, err := hex.DecodeString(strings.TrimPrefix(token, "consent_"))
	require.NoError(t, err)
	require.Len(t, raw, cryptox.TokenSize128)
}

func TestConstantTimeEquals(t *testing.T) {
	t.Parallel()

	require.True(t, cryptox.ConstantTimeEquals("fps", "fps"))
	require.False(t, cryptox.ConstantTimeEquals("fps", "Fps"))
	require.False(t, cryptox.ConstantTimeEquals("fps", "fps "))
	require.False(t, cryptox.ConstantTimeEquals("", "fps"))
}
