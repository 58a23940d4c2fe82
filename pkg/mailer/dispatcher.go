package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/mycookbook-api/pkg/mailer/templates"
)

// ErrPermanent marks a job that will never succeed (bad payload, unknown
// template). The consumer drops it instead of requeueing.
var ErrPermanent = errors.New("permanent job failure")

// Dispatcher turns queued jobs into sent e-mail.
type Dispatcher struct {
	Sender Sender
	Brand  mailtpl.Brand
}

// Handle decodes, renders and sends one queue message.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) error {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if err := job.Validate(); err != nil {
		return err
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		data := d.prepare(&job)
		s, t, h, err := mailtpl.Render(job.Template, data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
		}
		subject, text, html = strings.TrimSpace(s), t, h
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrPermanent)
	}
	return d.Sender.Send(ctx, job.To, subject, text, html)
}

// prepare fills recipient and brand fields the publisher left out.
func (d *Dispatcher) prepare(job *Job) map[string]any {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	setDefault := func(key string, v string) {
		if cur, ok := job.Data[key]; !ok || fmt.Sprintf("%v", cur) == "" {
			job.Data[key] = v
		}
	}
	setDefault("Email", job.To)
	setDefault("CompanyName", d.Brand.CompanyName)
	setDefault("AppName", d.Brand.AppName)
	setDefault("LogoURL", d.Brand.LogoURL)
	setDefault("SupportURL", d.Brand.SupportURL)
	setDefault("FrontendURL", d.Brand.FrontendURL)
	if id, ok := job.Data["RecipeID"]; ok && d.Brand.FrontendURL != "" {
		setDefault("RecipeURL", strings.TrimRight(d.Brand.FrontendURL, "/")+"/recipes/"+fmt.Sprintf("%v", id))
	}
	return job.Data
}
