package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithCompany(name, supportURL string) Option {
	return func(d *EmailData) {
		if s := strings.TrimSpace(name); s != "" {
			d.CompanyName = s
		}
		if s := strings.TrimSpace(supportURL); s != "" {
			d.SupportURL = s
		}
	}
}

// NewEmailData builds template data addressed to one user.
func NewEmailData(name, email, typ string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
	}
	WithTime(time.Now())(&d)
	for _, o := range opts {
		o(&d)
	}
	return d
}
