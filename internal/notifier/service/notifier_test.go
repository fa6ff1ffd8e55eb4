package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inspirehub/pkg/events"
	"inspirehub/pkg/logger"
	"inspirehub/pkg/model"
)

type mockSender struct {
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *mockSender) Send(to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func extendedEvent() events.ReservationEvent {
	return events.ReservationEvent{
		ID:            "evt-1",
		Type:          events.TypeReservationExtended,
		ReservationID: "65f000000000000000000001",
		Kind:          model.ProductPrivateOffice,
		TenantName:    "Maria Santos",
		TenantEmail:   "maria@example.com",
		EndDate:       "2025-05-15",
		Total:         4816,
	}
}

func TestHandleEvent_SendsExtensionMail(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotifierService(sender, nil, testLogger())

	if err := svc.HandleEvent(context.Background(), extendedEvent()); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "maria@example.com" {
		t.Errorf("expected recipient maria@example.com, got %q", mail.to)
	}
	if mail.subject != "Your Private Office reservation has been extended" {
		t.Errorf("unexpected subject %q", mail.subject)
	}
	for _, want := range []string{"Hi Maria Santos", "2025-05-15", "₱4,816.00"} {
		if !strings.Contains(mail.body, want) {
			t.Errorf("body missing %q:\n%s", want, mail.body)
		}
	}
}

func TestHandleEvent_SkipsWithoutRecipient(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotifierService(sender, nil, testLogger())

	event := extendedEvent()
	event.TenantEmail = ""

	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected nil error for missing recipient, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(sender.sent))
	}
}

func TestHandleEvent_SkipsUnknownEventType(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotifierService(sender, nil, testLogger())

	event := extendedEvent()
	event.Type = "reservation.archived"

	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected nil error for unknown type, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(sender.sent))
	}
}

func TestHandleEvent_PropagatesSendFailure(t *testing.T) {
	sender := &mockSender{sendErr: errors.New("smtp refused")}
	svc := NewNotifierService(sender, nil, testLogger())

	err := svc.HandleEvent(context.Background(), extendedEvent())
	if err == nil {
		t.Fatal("expected error when send fails")
	}
	if !strings.Contains(err.Error(), "smtp refused") {
		t.Errorf("expected wrapped smtp error, got %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name          string
		eventType     string
		wantSubject   string
		wantInBody    []string
		wantNotInBody []string
	}{
		{
			name:        "created includes end date and total",
			eventType:   events.TypeReservationCreated,
			wantSubject: "Your Private Office reservation is confirmed",
			wantInBody:  []string{"confirmed", "2025-05-15", "₱4,816.00"},
		},
		{
			name:        "deactivated mentions released resources",
			eventType:   events.TypeReservationDeactivated,
			wantSubject: "Your Private Office reservation has been deactivated",
			wantInBody:  []string{"deactivated", "resources released"},
			// Deactivation is not a billing event.
			wantNotInBody: []string{"₱"},
		},
		{
			name:        "deleted mentions removal",
			eventType:   events.TypeReservationDeleted,
			wantSubject: "Your Private Office reservation record has been removed",
			wantInBody:  []string{"removed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := extendedEvent()
			event.Type = tt.eventType

			subject, body, ok := BuildMessage(event)
			if !ok {
				t.Fatal("expected a message for known event type")
			}
			if subject != tt.wantSubject {
				t.Errorf("expected subject %q, got %q", tt.wantSubject, subject)
			}
			for _, want := range tt.wantInBody {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q:\n%s", want, body)
				}
			}
			for _, unwanted := range tt.wantNotInBody {
				if strings.Contains(body, unwanted) {
					t.Errorf("body should not contain %q:\n%s", unwanted, body)
				}
			}
		})
	}
}

type mockContractFetcher struct {
	text     string
	fetchErr error
}

func (m *mockContractFetcher) FetchText(_ context.Context, _ model.ProductKind, _ string) (string, error) {
	if m.fetchErr != nil {
		return "", m.fetchErr
	}
	return m.text, nil
}

func TestHandleEvent_AttachesContractTextOnCreation(t *testing.T) {
	sender := &mockSender{}
	fetcher := &mockContractFetcher{text: "PRIVATE OFFICE SERVICE AGREEMENT\n..."}
	svc := NewNotifierService(sender, fetcher, testLogger())

	event := extendedEvent()
	event.Type = events.TypeReservationCreated

	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].body, "PRIVATE OFFICE SERVICE AGREEMENT") {
		t.Errorf("body missing contract text:\n%s", sender.sent[0].body)
	}
}

func TestHandleEvent_ContractFetchFailureStillSends(t *testing.T) {
	sender := &mockSender{}
	fetcher := &mockContractFetcher{fetchErr: errors.New("contracts unreachable")}
	svc := NewNotifierService(sender, fetcher, testLogger())

	event := extendedEvent()
	event.Type = events.TypeReservationCreated

	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected confirmation mail despite fetch failure, got %d", len(sender.sent))
	}
}

func TestHandleEvent_NoContractFetchForExtensions(t *testing.T) {
	sender := &mockSender{}
	fetcher := &mockContractFetcher{text: "SHOULD NOT APPEAR"}
	svc := NewNotifierService(sender, fetcher, testLogger())

	if err := svc.HandleEvent(context.Background(), extendedEvent()); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}
	if strings.Contains(sender.sent[0].body, "SHOULD NOT APPEAR") {
		t.Error("extension mail should not include contract text")
	}
}

func TestBuildMessage_AnonymousGreeting(t *testing.T) {
	event := extendedEvent()
	event.TenantName = ""

	_, body, ok := BuildMessage(event)
	if !ok {
		t.Fatal("expected a message")
	}
	if !strings.HasPrefix(body, "Hi,") {
		t.Errorf("expected anonymous greeting, got body:\n%s", body)
	}
}
