package notify

import (
	"context"
	"fmt"

	"afyaconnect_back_end_go/models"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=notifier.go -destination=mocks/notifier_mock.go -package=mocks

// Notifier tells the care-coordination team about new patient inquiries.
type Notifier interface {
	InquiryReceived(ctx context.Context, inquiry models.Inquiry) error
}

// LogNotifier is used when no mail provider is configured.
type LogNotifier struct{}

func (LogNotifier) InquiryReceived(ctx context.Context, inquiry models.Inquiry) error {
	log.WithFields(log.Fields{
		"inquiry_id": inquiry.ID,
		"hospital":   inquiry.HospitalName,
	}).Info("new inquiry received")
	return nil
}

type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
	to     *mail.Email
}

func NewSendGridNotifier(apiKey, from, to string) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("AfyaConnect", from),
		to:     mail.NewEmail("AfyaConnect care team", to),
	}
}

func (n *SendGridNotifier) InquiryReceived(ctx context.Context, inquiry models.Inquiry) error {
	subject := fmt.Sprintf("New inquiry for %s", inquiry.HospitalName)
	body := fmt.Sprintf("Patient: %s <%s>\nPhone: %s\nHospital: %s\n\n%s",
		inquiry.PatientName, inquiry.PatientEmail, inquiry.PatientPhone, inquiry.HospitalName, inquiry.Message)

	message := mail.NewSingleEmail(n.from, subject, n.to, body, "")
	message.SetReplyTo(mail.NewEmail(inquiry.PatientName, inquiry.PatientEmail))

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Wrap(err, "could not send inquiry notification")
	}
	if resp.StatusCode >= 300 {
		return errors.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
