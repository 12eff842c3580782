package webui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderLogin(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Login(&buf, LoginData{State: "state-abc", ClientName: "Example App"})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `name="state" value="state-abc"`)
	require.Contains(t, out, "Example App")
	require.Contains(t, out, `action="/login/callback"`)
	require.NotContains(t, out, "Error")
}

func TestRenderLoginEscapesState(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Login(&buf, LoginData{State: `"><script>alert(1)</script>`})
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestRenderConsent(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Consent(&buf, ConsentData{
		ConsentToken: "consent_deadbeef",
		ClientName:   "Example App",
		Username:     "fps",
		Scopes:       []string{"user"},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `name="consent_token" value="consent_deadbeef"`)
	require.Contains(t, out, `value="approve"`)
	require.Contains(t, out, `value="deny"`)
	require.Contains(t, out, "user")
}

func TestRenderDenied(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Denied(&buf, DeniedData{ClientName: "Example App", RetryURL: "#"})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "Access denied")
	require.Contains(t, out, `href="#"`)
}
