package notifications

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/markmed/fleetman/pkg/email/templates"
	"github.com/markmed/fleetman/pkg/i18n"
)

// Message is a rendered email.
type Message struct {
	Subject  string
	BodyHTML string
}

// Renderer turns an intent into an email for one recipient.
type Renderer interface {
	Render(ctx context.Context, r Recipient, i Intent) (Message, error)
}

// LayoutData is passed to the email layout.
type LayoutData struct {
	Lang        string
	Subject     string
	Body        string
	ActionURL   string
	ActionLabel string
	Category    Category
}

// Layout builds the email HTML from LayoutData.
type Layout func(LayoutData) templ.Component

// Translation key of the action button label.
const actionLabelKey = "notifications.action.open"

// TemplateRenderer translates "<messageKey>.subject" and "<messageKey>.body"
// with the intent metadata as parameters and wraps them in a layout. When
// the subject key is missing the message key itself is translated; when the
// body key is missing the subject is reused.
type TemplateRenderer struct {
	translator *i18n.Translator
	baseURL    *url.URL
	layout     Layout
}

var _ Renderer = (*TemplateRenderer)(nil)

// RendererOption configures a TemplateRenderer.
type RendererOption func(*TemplateRenderer)

// WithBaseURL resolves relative action URLs against base.
func WithBaseURL(base string) RendererOption {
	return func(r *TemplateRenderer) {
		if u, err := url.Parse(base); err == nil && base != "" {
			r.baseURL = u
		}
	}
}

// WithLayout replaces DefaultLayout.
func WithLayout(l Layout) RendererOption {
	return func(r *TemplateRenderer) {
		if l != nil {
			r.layout = l
		}
	}
}

func NewTemplateRenderer(tr *i18n.Translator, opts ...RendererOption) *TemplateRenderer {
	r := &TemplateRenderer{translator: tr, layout: DefaultLayout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render implements Renderer.
func (r *TemplateRenderer) Render(ctx context.Context, rcpt Recipient, i Intent) (Message, error) {
	lang := r.translator.Match(rcpt.Language)
	params := i.Params()
	if rcpt.Name != "" {
		if _, ok := params["recipientName"]; !ok {
			params["recipientName"] = rcpt.Name
		}
	}

	subject, ok := r.translator.Lookup(lang, i.MessageKey()+".subject")
	if !ok {
		subject, ok = r.translator.Lookup(lang, i.MessageKey())
	}
	if !ok {
		return Message{}, fmt.Errorf("%w: %s", ErrMissingTranslation, i.MessageKey())
	}
	subject = i18n.Interpolate(subject, params)

	body := subject
	if tmpl, ok := r.translator.Lookup(lang, i.MessageKey()+".body"); ok {
		body = i18n.Interpolate(tmpl, params)
	}

	label, ok := r.translator.Lookup(lang, actionLabelKey)
	if !ok {
		label = "Open"
	}

	html, err := templates.Render(ctx, r.layout(LayoutData{
		Lang:        lang,
		Subject:     subject,
		Body:        body,
		ActionURL:   r.resolve(i.ActionURL()),
		ActionLabel: label,
		Category:    i.Category(),
	}))
	if err != nil {
		return Message{}, fmt.Errorf("render email layout: %w", err)
	}

	return Message{Subject: subject, BodyHTML: html}, nil
}

func (r *TemplateRenderer) resolve(action string) string {
	if action == "" || r.baseURL == nil {
		return action
	}
	ref, err := url.Parse(action)
	if err != nil {
		return action
	}
	return r.baseURL.ResolveReference(ref).String()
}

// DefaultLayout is a minimal single-column email with an accent bar in the
// category color and an optional action button.
func DefaultLayout(d LayoutData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="`)
		b.WriteString(templ.EscapeString(d.Lang))
		b.WriteString(`"><head><meta charset="utf-8"><title>`)
		b.WriteString(templ.EscapeString(d.Subject))
		b.WriteString(`</title></head><body style="font-family:sans-serif;margin:0;padding:24px;background:#f9fafb">`)
		b.WriteString(`<div style="max-width:560px;margin:0 auto;background:#fff;border-top:4px solid `)
		b.WriteString(d.Category.Color())
		b.WriteString(`;padding:24px">`)
		b.WriteString(`<h1 style="font-size:18px;margin:0 0 12px">`)
		b.WriteString(templ.EscapeString(d.Subject))
		b.WriteString(`</h1><p style="font-size:14px;line-height:1.5">`)
		b.WriteString(templ.EscapeString(d.Body))
		b.WriteString(`</p>`)
		if d.ActionURL != "" {
			b.WriteString(`<p><a href="`)
			b.WriteString(templ.EscapeString(string(templ.URL(d.ActionURL))))
			b.WriteString(`" style="display:inline-block;padding:10px 16px;background:`)
			b.WriteString(d.Category.Color())
			b.WriteString(`;color:#fff;text-decoration:none;border-radius:4px">`)
			b.WriteString(templ.EscapeString(d.ActionLabel))
			b.WriteString(`</a></p>`)
		}
		b.WriteString(`</div></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
