package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/telemetry"
)

// TemplateSource looks up email templates by key.
type TemplateSource interface {
	GetTemplate(ctx context.Context, key string) (*db.EmailTemplate, error)
}

// Transport delivers a rendered message. Implementations are fire-and-forget;
// there is no delivery confirmation beyond the returned error.
type Transport interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// Dispatcher renders and sends templated notifications. All failure modes
// (missing template, disabled template, transport error) surface as a false
// return, never as an error: a notification is a side effect, not a
// transaction participant.
type Dispatcher struct {
	templates TemplateSource
	transport Transport
	site      SiteInfo
	// AdminRecipients receive admin notifications and digests. When empty,
	// site.AdminEmail is the single fallback; when that is empty too, admin
	// sends are skipped silently (notifications disabled).
	adminRecipients []string
	log             *zap.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(templates TemplateSource, transport Transport, site SiteInfo, adminRecipients []string, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		templates:       templates,
		transport:       transport,
		site:            site,
		adminRecipients: adminRecipients,
		log:             log,
	}
}

// Send renders the template for key against the application and emails the
// applicant. Returns false if the template is missing or disabled, or the
// transport fails.
func (d *Dispatcher) Send(ctx context.Context, key string, app *db.Application) bool {
	tpl, err := d.templates.GetTemplate(ctx, key)
	if err != nil {
		d.log.Warn("template lookup failed", zap.String("key", key), zap.Error(err))
		telemetry.NotificationsFailed.Inc()
		return false
	}
	if tpl == nil || !tpl.Enabled {
		d.log.Debug("template missing or disabled", zap.String("key", key))
		return false
	}

	vars := BuildVars(app, nil, d.site)
	subject := Render(tpl.Subject, vars)
	body := Render(tpl.Body, vars)

	if err := d.transport.Send(ctx, []string{app.Email}, subject, body); err != nil {
		d.log.Warn("notification send failed",
			zap.String("key", key),
			zap.Int64("application_id", app.ID),
			zap.Error(err))
		telemetry.NotificationsFailed.Inc()
		return false
	}
	telemetry.NotificationsSent.Inc()
	return true
}

// SendAdmin delivers a message to the configured admin recipients. A missing
// recipient configuration is expected behavior, not an error.
func (d *Dispatcher) SendAdmin(ctx context.Context, subject, body string) bool {
	recipients := d.adminRecipients
	if len(recipients) == 0 && d.site.AdminEmail != "" {
		recipients = []string{d.site.AdminEmail}
	}
	if len(recipients) == 0 {
		d.log.Debug("admin notification skipped: no recipients configured")
		return false
	}
	if err := d.transport.Send(ctx, recipients, subject, body); err != nil {
		d.log.Warn("admin notification send failed", zap.Error(err))
		telemetry.NotificationsFailed.Inc()
		return false
	}
	telemetry.NotificationsSent.Inc()
	return true
}

// Preview renders a template against the synthetic sample application.
// Returns ok=false when the template does not exist.
func (d *Dispatcher) Preview(ctx context.Context, key string) (subject, body string, ok bool, err error) {
	tpl, err := d.templates.GetTemplate(ctx, key)
	if err != nil {
		return "", "", false, err
	}
	if tpl == nil {
		return "", "", false, nil
	}
	vars := BuildVars(SampleApplication(), nil, d.site)
	return Render(tpl.Subject, vars), Render(tpl.Body, vars), true, nil
}

// TestSend renders the template against the sample application and sends it
// to an explicit address, regardless of the template's enabled flag.
func (d *Dispatcher) TestSend(ctx context.Context, key, to string) bool {
	tpl, err := d.templates.GetTemplate(ctx, key)
	if err != nil || tpl == nil {
		return false
	}
	vars := BuildVars(SampleApplication(), nil, d.site)
	if err := d.transport.Send(ctx, []string{to}, Render(tpl.Subject, vars), Render(tpl.Body, vars)); err != nil {
		d.log.Warn("test send failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
