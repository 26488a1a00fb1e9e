package mailer

import (
	"errors"
	"fmt"
	"time"

	mailtpl "github.com/oksasatya/go-user-resource-api/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job has no template and no subject/body")

// Defaults fills data the API does not know about when it enqueues a job.
type Defaults struct {
	CompanyName string
	SupportURL  string
}

// Compose renders a job into subject, text and html.
func Compose(job EmailJob, d Defaults) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", ErrEmptyJob
		}
		return job.Subject, job.Text, job.HTML, nil
	}

	data := make(map[string]any, len(job.Data)+4)
	for k, v := range job.Data {
		data[k] = v
	}
	setIfBlank(data, "Email", job.To)
	setIfBlank(data, "RecipientEmail", job.To)
	setIfBlank(data, "CompanyName", d.CompanyName)
	setIfBlank(data, "SupportURL", d.SupportURL)
	setIfBlank(data, "Time", time.Now().UTC().Format("02 January 2006, 15:04"))

	subject, text, html, err = mailtpl.Render(job.Template, data)
	if err != nil {
		return "", "", "", fmt.Errorf("render %s: %w", job.Template, err)
	}
	return subject, text, html, nil
}

func setIfBlank(data map[string]any, key, value string) {
	if v, ok := data[key]; !ok || fmt.Sprintf("%v", v) == "" {
		data[key] = value
	}
}
