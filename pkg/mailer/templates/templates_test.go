package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	data := NewEmailData("John Doe", "johndoe@example.com", Welcome,
		WithTime(time.Date(2024, 11, 6, 7, 27, 0, 0, time.UTC)),
		WithCompany("Acme", "https://acme.test/support"),
	)

	subject, text, html, err := Render(Welcome, ToMap(data))
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Acme, John Doe", subject)
	assert.Contains(t, text, "johndoe@example.com")
	assert.Contains(t, text, "06 November 2024, 07:27")
	assert.Contains(t, html, `href="https://acme.test/support"`)
}

func TestRenderAccountDeletedDefaults(t *testing.T) {
	subject, _, html, err := Render(AccountDeleted, ToMap(NewEmailData("Jane", "jane@example.com", AccountDeleted)))
	require.NoError(t, err)

	assert.Equal(t, "Your account at our service was deleted", subject)
	assert.Contains(t, html, "The team")
}

func TestRenderEscapesHTML(t *testing.T) {
	_, _, html, err := Render(Welcome, ToMap(NewEmailData("<b>x</b>", "x@example.com", Welcome)))
	require.NoError(t, err)
	assert.NotContains(t, html, "<b>x</b>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", map[string]any{})
	assert.Error(t, err)
}
