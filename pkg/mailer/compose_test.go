package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/go-user-resource-api/pkg/mailer/templates"
)

func TestComposeTemplateFillsDefaults(t *testing.T) {
	job := EmailJob{
		To:       "johndoe@example.com",
		Template: mailtpl.Welcome,
		Data:     map[string]any{"Name": "John Doe"},
	}

	subject, text, _, err := Compose(job, Defaults{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Acme, John Doe", subject)
	assert.Contains(t, text, "johndoe@example.com")
	assert.NotContains(t, job.Data, "CompanyName")
}

func TestComposeRawJob(t *testing.T) {
	subject, text, html, err := Compose(EmailJob{To: "a@b.co", Subject: "Hi", Text: "body"}, Defaults{})
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "body", text)
	assert.Empty(t, html)
}

func TestComposeRejectsIncompleteJobs(t *testing.T) {
	_, _, _, err := Compose(EmailJob{To: "a@b.co", Subject: "Hi"}, Defaults{})
	assert.ErrorIs(t, err, ErrEmptyJob)

	_, _, _, err = Compose(EmailJob{Template: mailtpl.Welcome}, Defaults{})
	assert.Error(t, err)

	_, _, _, err = Compose(EmailJob{To: "a@b.co", Template: "missing"}, Defaults{})
	assert.Error(t, err)
}
