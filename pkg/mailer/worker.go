package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	// Requeue is returned for transient send failures.
	Requeue
	// Drop is returned for messages that can never succeed.
	Drop
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// Worker turns queued EmailJob messages into sent mail.
type Worker struct {
	Sender      Sender
	Defaults    Defaults
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// Handle decodes, renders and sends one message body.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("undecodable email job")
		return Drop
	}
	log := w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html, err := Compose(job, w.Defaults)
	if err != nil {
		log.WithError(err).Warn("unrenderable email job")
		return Drop
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Error("send failed")
		return Requeue
	}
	log.Info("email sent")
	return Ack
}
