package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

// ExcerptLength bounds the comment text quoted in a notification.
const ExcerptLength = 140

func WithRecipe(id, title string) Option {
	return func(d *EmailData) {
		d.RecipeID = id
		d.RecipeTitle = title
	}
}

func WithComment(commenter, content string) Option {
	return func(d *EmailData) {
		d.CommenterName = commenter
		d.CommentExcerpt = Excerpt(content, ExcerptLength)
	}
}

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

func WithBrand(b Brand) Option {
	return func(d *EmailData) {
		d.CompanyName = b.CompanyName
		d.AppName = b.AppName
		d.LogoURL = b.LogoURL
		d.SupportURL = b.SupportURL
		d.FrontendURL = b.FrontendURL
	}
}

// Excerpt shortens s to at most n runes on a word boundary when possible.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

// NewEmailData fills the recipient fields and applies opts.
func NewEmailData(typ, name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, Type: typ}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
