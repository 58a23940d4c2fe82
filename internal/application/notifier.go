package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/pkg/mailer"
	mailtpl "github.com/oksasatya/mycookbook-api/pkg/mailer/templates"
)

// Notifier enqueues notification e-mail. Publishing is best-effort: a failure
// is logged and never fails the request that triggered it.
type Notifier struct {
	Pub     JobPublisher
	Enabled bool
	Logger  *logrus.Logger
}

func NewNotifier(pub JobPublisher, enabled bool, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, Enabled: enabled, Logger: logger}
}

func (n *Notifier) send(ctx context.Context, to, template string, data mailtpl.EmailData) {
	if n == nil || !n.Enabled || n.Pub == nil || to == "" {
		return
	}
	job := mailer.Job{To: to, Template: template, Data: mailtpl.ToMap(data)}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := n.Pub.PublishJSON(c, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", template).Warn("enqueue email failed")
	}
}

func (n *Notifier) Welcome(ctx context.Context, name, email string) {
	n.send(ctx, email, mailtpl.Welcome, mailtpl.NewEmailData(mailtpl.Welcome, name, email, mailtpl.WithTime(time.Now())))
}

func (n *Notifier) PasswordChanged(ctx context.Context, name, email string) {
	n.send(ctx, email, mailtpl.PasswordChanged, mailtpl.NewEmailData(mailtpl.PasswordChanged, name, email, mailtpl.WithTime(time.Now())))
}

func (n *Notifier) NewComment(ctx context.Context, author *entity.User, recipe *entity.Recipe, c *entity.Comment) {
	n.send(ctx, author.Email, mailtpl.NewComment, mailtpl.NewEmailData(
		mailtpl.NewComment, author.Name, author.Email,
		mailtpl.WithRecipe(recipe.ID, recipe.Title),
		mailtpl.WithComment(c.AuthorName, c.Content),
		mailtpl.WithTime(c.CreatedAt),
	))
}
