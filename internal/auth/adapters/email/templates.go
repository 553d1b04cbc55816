package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

const (
	kindVerify = "verify_email"
	kindReset  = "reset_password"
)

type templateData struct {
	Brand     string
	Name      string
	Link      string
	ExpiresIn string
	Year      int
}

type rendered struct {
	Subject string
	Text    string
	HTML    string
}

type renderer struct {
	html      *htmltemplate.Template
	text      *texttemplate.Template
	brand     string
	clientURL string
	now       func() time.Time
}

func newRenderer(brand, clientURL string) (*renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errParseTemplate, err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errParseTemplate, err)
	}
	return &renderer{
		html:      html,
		text:      text,
		brand:     brand,
		clientURL: strings.TrimRight(clientURL, "/"),
		now:       time.Now,
	}, nil
}

// link строит ссылку на страницу клиента с кодом в query.
func (r *renderer) link(path, secret string) string {
	return r.clientURL + path + "?token=" + url.QueryEscape(secret)
}

func (r *renderer) render(kind, name, secret string) (*rendered, error) {
	data := templateData{Brand: r.brand, Name: name, Year: r.now().Year()}
	var subject string

	switch kind {
	case kindVerify:
		subject = "Verify Your Email - " + r.brand
		data.Link = r.link("/verify-email", secret)
		data.ExpiresIn = "24 hours"
	case kindReset:
		subject = "Reset Your Password - " + r.brand
		data.Link = r.link("/reset-password", secret)
		data.ExpiresIn = "1 hour"
	default:
		return nil, fmt.Errorf("%s: %q", errUnknownTemplate, kind)
	}

	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, kind+".html", data); err != nil {
		return nil, fmt.Errorf("%s: %w", errExecTemplate, err)
	}
	if err := r.text.ExecuteTemplate(&text, kind+".txt", data); err != nil {
		return nil, fmt.Errorf("%s: %w", errExecTemplate, err)
	}
	return &rendered{Subject: subject, Text: text.String(), HTML: html.String()}, nil
}
