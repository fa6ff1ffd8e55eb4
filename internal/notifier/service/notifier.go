// Package service turns reservation lifecycle events into tenant emails.
package service

import (
	"context"
	"fmt"
	"strings"

	"inspirehub/internal/contracts/render"
	"inspirehub/internal/notifier/mailer"
	"inspirehub/pkg/events"
	"inspirehub/pkg/logger"
)

type NotifierService struct {
	sender    mailer.Sender
	contracts ContractFetcher
	log       *logger.Logger
}

// NewNotifierService builds the event handler. The contract fetcher may be
// nil; confirmation mails then go out without the agreement text.
func NewNotifierService(sender mailer.Sender, contracts ContractFetcher, log *logger.Logger) *NotifierService {
	return &NotifierService{
		sender:    sender,
		contracts: contracts,
		log:       log,
	}
}

// HandleEvent satisfies events.Handler. Events the notifier has no message
// for, and events with no recipient, are acknowledged without sending so the
// consumer does not retry them.
func (s *NotifierService) HandleEvent(ctx context.Context, event events.ReservationEvent) error {
	if event.TenantEmail == "" {
		s.log.Warn("Event carries no tenant email, skipping notification",
			"event_id", event.ID,
			"event_type", event.Type,
			"reservation_id", event.ReservationID,
		)
		return nil
	}

	subject, body, ok := BuildMessage(event)
	if !ok {
		s.log.Warn("No notification defined for event type, skipping",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return nil
	}

	// Confirmation mails carry the full agreement text when the contracts
	// service is reachable; a fetch failure never blocks the mail itself.
	if event.Type == events.TypeReservationCreated && s.contracts != nil {
		text, err := s.contracts.FetchText(ctx, event.Kind, event.ReservationID)
		if err != nil {
			s.log.Warn("Could not fetch contract text, sending confirmation without it",
				"reservation_id", event.ReservationID,
				"error", err,
			)
		} else {
			body += "\n\n----------\n\n" + text
		}
	}

	if err := s.sender.Send(event.TenantEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send %s notification for reservation %s: %w",
			event.Type, event.ReservationID, err)
	}

	s.log.Info("Notification sent",
		"event_type", event.Type,
		"reservation_id", event.ReservationID,
	)
	return nil
}

// BuildMessage maps an event to an email subject and body. The third return
// is false for event types the notifier does not message about.
func BuildMessage(event events.ReservationEvent) (subject, body string, ok bool) {
	greeting := "Hi"
	if event.TenantName != "" {
		greeting = "Hi " + event.TenantName
	}
	kind := event.Kind.Label()

	var lines []string
	switch event.Type {
	case events.TypeReservationCreated:
		subject = fmt.Sprintf("Your %s reservation is confirmed", kind)
		lines = []string{
			greeting + ",",
			"",
			fmt.Sprintf("Your %s reservation has been confirmed.", kind),
		}
		if event.EndDate != "" {
			lines = append(lines, fmt.Sprintf("The term runs until %s.", event.EndDate))
		}
		if event.Total > 0 {
			lines = append(lines, fmt.Sprintf("The total contract amount is %s, VAT included.", render.FormatPeso(event.Total)))
		}

	case events.TypeReservationExtended:
		subject = fmt.Sprintf("Your %s reservation has been extended", kind)
		lines = []string{
			greeting + ",",
			"",
			fmt.Sprintf("Your %s reservation has been extended until %s.", kind, event.EndDate),
			fmt.Sprintf("The updated contract total is %s, VAT included.", render.FormatPeso(event.Total)),
		}

	case events.TypeReservationDeactivated:
		subject = fmt.Sprintf("Your %s reservation has been deactivated", kind)
		lines = []string{
			greeting + ",",
			"",
			fmt.Sprintf("Your %s reservation has been deactivated and its resources released.", kind),
			"If this was unexpected, please contact our front desk.",
		}

	case events.TypeReservationDeleted:
		subject = fmt.Sprintf("Your %s reservation record has been removed", kind)
		lines = []string{
			greeting + ",",
			"",
			fmt.Sprintf("Your %s reservation record has been removed from our system.", kind),
		}

	default:
		return "", "", false
	}

	lines = append(lines, "", "InspireHub Workspaces")
	return subject, strings.Join(lines, "\n"), true
}
