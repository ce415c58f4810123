package services

import (
	"context"
	"database/sql"
	"time"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/notify"
	"afyaconnect_back_end_go/validators"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type InquiryService struct {
	db       *sql.DB
	notifier notify.Notifier
}

func NewInquiryService(db *sql.DB, notifier notify.Notifier) *InquiryService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &InquiryService{db: db, notifier: notifier}
}

// Create stores the inquiry and then tells the care team. A notification
// failure is logged and does not fail the request.
func (s *InquiryService) Create(ctx context.Context, in models.InquiryInput) (*models.Inquiry, error) {
	in.Normalize()
	if err := validators.Struct(in); err != nil {
		return nil, err
	}

	inquiry := models.Inquiry{
		HospitalName: in.HospitalName,
		PatientName:  in.PatientName,
		PatientEmail: in.PatientEmail,
		PatientPhone: in.PatientPhone,
		Message:      in.Message,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	err := s.db.QueryRowContext(ctx, `
	INSERT INTO inquiries (hospital_name, patient_name, patient_email, patient_phone, message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`,
		inquiry.HospitalName, inquiry.PatientName, inquiry.PatientEmail, inquiry.PatientPhone,
		inquiry.Message, inquiry.CreatedAt,
	).Scan(&inquiry.ID)
	if err != nil {
		return nil, errors.Wrap(err, "could not insert inquiry")
	}

	if err := s.notifier.InquiryReceived(ctx, inquiry); err != nil {
		log.WithError(err).WithField("inquiry_id", inquiry.ID).Warn("inquiry notification failed")
	}
	return &inquiry, nil
}

// List returns every inquiry, newest first.
func (s *InquiryService) List(ctx context.Context) ([]models.Inquiry, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, hospital_name, patient_name, patient_email, patient_phone, message, created_at
	FROM inquiries
	ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "could not query inquiries")
	}
	defer rows.Close()

	inquiries := []models.Inquiry{}
	for rows.Next() {
		var i models.Inquiry
		if err := rows.Scan(&i.ID, &i.HospitalName, &i.PatientName, &i.PatientEmail, &i.PatientPhone, &i.Message, &i.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "could not scan inquiry")
		}
		inquiries = append(inquiries, i)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not iterate inquiries")
	}
	return inquiries, nil
}
