// Package webui renders the browser-facing pages of the authorization flow:
// the login form, the consent prompt and the access denied page. Templates
// are embedded into the binary; if a template fails to render, a minimal
// inline page is served so the flow never dead-ends on a blank response.
package webui

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoginData feeds the login form template.
type LoginData struct {
	State      string
	ClientName string
	Error      string
}

// ConsentData feeds the consent prompt template.
type ConsentData struct {
	ConsentToken string
	ClientName   string
	Username     string
	Scopes       []string
}

// DeniedData feeds the access denied page. RetryURL may be "#" when the
// original authorization request can no longer be reconstructed.
type DeniedData struct {
	ClientName string
	RetryURL   string
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) Login(w io.Writer, data LoginData) error {
	return r.render(w, "login.html", data, fallbackLogin(data))
}

func (r *Renderer) Consent(w io.Writer, data ConsentData) error {
	return r.render(w, "consent.html", data, fallbackConsent(data))
}

func (r *Renderer) Denied(w io.Writer, data DeniedData) error {
	return r.render(w, "denied.html", data, fallbackDenied(data))
}

// render executes into a buffer first so a mid-render failure never leaks a
// half-written page, then falls back to the inline version.
func (r *Renderer) render(w io.Writer, name string, data any, fallback string) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		_, werr := io.WriteString(w, fallback)
		return werr
	}
	_, err := buf.WriteTo(w)
	return err
}

func fallbackLogin(data LoginData) string {
	return fmt.Sprintf(`<html><body><h2>Sign in</h2>
<form method="post" action="/login/callback">
<input type="hidden" name="state" value="%s">
<label>Username <input type="text" name="username"></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Sign in</button>
</form></body></html>`, html.EscapeString(data.State))
}

func fallbackConsent(data ConsentData) string {
	return fmt.Sprintf(`<html><body><h2>Authorize %s</h2>
<form method="post" action="/consent/callback">
<input type="hidden" name="consent_token" value="%s">
<button type="submit" name="action" value="approve">Approve</button>
<button type="submit" name="action" value="deny">Deny</button>
</form></body></html>`, html.EscapeString(data.ClientName), html.EscapeString(data.ConsentToken))
}

func fallbackDenied(data DeniedData) string {
	return fmt.Sprintf(`<html><body><h2>Access denied</h2>
<p>You denied the authorization request from %s.</p>
<p><a href="%s">Try again</a></p></body></html>`,
		html.EscapeString(data.ClientName), html.EscapeString(data.RetryURL))
}
