package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/mycookbook-api/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	msgs []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, sent{to, subject, text, html})
	return nil
}

func encode(t *testing.T, job Job) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestDispatcher_TemplateJobGetsBrandAndLink(t *testing.T) {
	s := &fakeSender{}
	d := &Dispatcher{Sender: s, Brand: mailtpl.Brand{CompanyName: "MyCookBook", FrontendURL: "http://app/"}}
	job := Job{
		To:       "ana@example.com",
		Template: mailtpl.NewComment,
		Data: mailtpl.ToMap(mailtpl.NewEmailData(mailtpl.NewComment, "Ana", "",
			mailtpl.WithRecipe("r1", "Soup"), mailtpl.WithComment("Ben", "Yum"))),
	}

	require.NoError(t, d.Handle(context.Background(), encode(t, job)))
	require.Len(t, s.msgs, 1)
	assert.Equal(t, "ana@example.com", s.msgs[0].to)
	assert.Equal(t, `Ben commented on "Soup"`, s.msgs[0].subject)
	assert.Contains(t, s.msgs[0].text, "http://app/recipes/r1")
}

func TestDispatcher_RawJob(t *testing.T) {
	s := &fakeSender{}
	d := &Dispatcher{Sender: s}
	require.NoError(t, d.Handle(context.Background(), encode(t, Job{To: "a@b.c", Subject: "Hi", Text: "body"})))
	assert.Equal(t, "Hi", s.msgs[0].subject)
}

func TestDispatcher_PermanentFailures(t *testing.T) {
	d := &Dispatcher{Sender: &fakeSender{}}
	ctx := context.Background()

	require.ErrorIs(t, d.Handle(ctx, []byte("{")), ErrPermanent)
	require.ErrorIs(t, d.Handle(ctx, encode(t, Job{Subject: "x", Text: "y"})), ErrPermanent)
	require.ErrorIs(t, d.Handle(ctx, encode(t, Job{To: "a@b.c", Template: "missing"})), ErrPermanent)
	require.ErrorIs(t, d.Handle(ctx, encode(t, Job{To: "a@b.c"})), ErrPermanent)
}

func TestDispatcher_SendFailureIsRetryable(t *testing.T) {
	d := &Dispatcher{Sender: &fakeSender{err: errors.New("mailgun down")}}
	err := d.Handle(context.Background(), encode(t, Job{To: "a@b.c", Subject: "Hi", Text: "x"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)
}
