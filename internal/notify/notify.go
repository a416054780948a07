package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/foraginglink/backend/internal/config"
	"github.com/foraginglink/backend/internal/models"
)

type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// New returns a Twilio SMS notifier, or a logging no-op when Twilio is not configured.
func New(cfg config.Twilio, log *slog.Logger) Notifier {
	log = log.With("component", "notify")
	if !cfg.Enabled() {
		log.Info("twilio not configured, sms disabled")
		return &LogNotifier{logger: log}
	}
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from:   cfg.From,
		logger: log,
	}
}

type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	logger *slog.Logger
}

func (n *TwilioNotifier) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	msg, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	if msg.Sid != nil {
		n.logger.Debug("sms sent", "sid", *msg.Sid)
	}
	return nil
}

type LogNotifier struct {
	logger *slog.Logger
}

func (n *LogNotifier) Send(_ context.Context, to, body string) error {
	n.logger.Debug("sms skipped", "to", to, "body", body)
	return nil
}

func RegistrationConfirmed(course *models.Course) string {
	return fmt.Sprintf("Foraging Link: your place on %q (%s) is confirmed. See you in %s!",
		course.Title, course.Date.Format("2 Jan 2006"), course.Location)
}

func RegistrationCancelled(course *models.Course) string {
	return fmt.Sprintf("Foraging Link: your registration for %q (%s) has been cancelled.",
		course.Title, course.Date.Format("2 Jan 2006"))
}
