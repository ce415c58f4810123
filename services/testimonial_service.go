package services

import (
	"context"
	"database/sql"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/storage"
	"afyaconnect_back_end_go/validators"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const testimonialColumns = `id, patient_name, country, age, treatment_type, hospital_name, doctor_name,
	treatment_date, duration, cost_saved, rating, body, tags, before_image, after_image,
	verified, status, account_id, created_at`

type TestimonialService struct {
	db     *sql.DB
	images storage.ImageStore
}

func NewTestimonialService(db *sql.DB, images storage.ImageStore) *TestimonialService {
	return &TestimonialService{db: db, images: images}
}

// Submit validates the whole submission first; nothing is stored unless
// every field passes. The row is created pending.
func (s *TestimonialService) Submit(ctx context.Context, accountID int64, in models.TestimonialInput, before, after *multipart.FileHeader) (*models.Testimonial, error) {
	in.Normalize()
	if err := validators.Testimonial(in, before, after); err != nil {
		return nil, err
	}

	t := in.Testimonial(accountID)
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)

	var stored []string
	cleanup := func() {
		for _, ref := range stored {
			if err := s.images.Delete(ctx, ref); err != nil {
				log.WithError(err).WithField("ref", ref).Warn("could not remove orphaned image")
			}
		}
	}

	for _, img := range []struct {
		field  string
		header *multipart.FileHeader
		dest   *string
	}{
		{"beforeImage", before, &t.BeforeImage},
		{"afterImage", after, &t.AfterImage},
	} {
		if img.header == nil {
			continue
		}
		ref, err := s.saveImage(ctx, img.field, img.header)
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, ref)
		*img.dest = ref
	}

	var age interface{}
	if t.Age != nil {
		age = *t.Age
	}

	err := s.db.QueryRowContext(ctx, `
	INSERT INTO testimonials (
		patient_name, country, age, treatment_type, hospital_name, doctor_name, treatment_date,
		duration, cost_saved, rating, body, tags, before_image, after_image, status, account_id, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING id`,
		t.PatientName, t.Country, age, t.TreatmentType, t.HospitalName, t.DoctorName, t.TreatmentDate,
		t.Duration, t.CostSaved, t.Rating, t.Text, models.JoinList(t.Tags), t.BeforeImage, t.AfterImage,
		string(t.Status), t.AccountID, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		cleanup()
		return nil, errors.Wrap(err, "could not insert testimonial")
	}

	return &t, nil
}

func (s *TestimonialService) saveImage(ctx context.Context, field string, fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", errors.Wrapf(err, "could not open upload %q", fh.Filename)
	}
	defer file.Close()

	// the stored type comes from the bytes, never from the client
	contentType, err := storage.DetectImage(file)
	if err != nil {
		return "", validators.Invalid(field, "must be a JPEG, PNG, GIF or WebP image")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrapf(err, "could not rewind upload %q", fh.Filename)
	}

	ref, err := s.images.Save(ctx, contentType, file)
	if err != nil {
		return "", errors.Wrapf(err, "could not store upload %q", fh.Filename)
	}
	return ref, nil
}

// ListApproved returns published testimonials, newest first. A treatment
// type with no approved rows falls back to the full set. limit <= 0 means
// no cap.
func (s *TestimonialService) ListApproved(ctx context.Context, treatmentType string, limit int) ([]models.Testimonial, error) {
	params := []interface{}{string(models.StatusApproved)}
	sqlQuery := "SELECT " + testimonialColumns + " FROM testimonials WHERE status = $1"

	if treatmentType = strings.ToLower(strings.TrimSpace(treatmentType)); treatmentType != "" {
		params = append(params, treatmentType)
		sqlQuery += ` AND (LOWER(treatment_type) = $2 OR NOT EXISTS (
			SELECT 1 FROM testimonials t2 WHERE t2.status = $1 AND LOWER(t2.treatment_type) = $2))`
	}

	sqlQuery += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		params = append(params, limit)
		sqlQuery += " LIMIT $" + strconv.Itoa(len(params))
	}

	return s.query(ctx, sqlQuery, params...)
}

// ListByStatus is the moderation queue. An empty status lists everything.
func (s *TestimonialService) ListByStatus(ctx context.Context, status models.TestimonialStatus) ([]models.Testimonial, error) {
	switch status {
	case "":
		return s.query(ctx, "SELECT "+testimonialColumns+" FROM testimonials ORDER BY created_at DESC, id DESC")
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return s.query(ctx, "SELECT "+testimonialColumns+" FROM testimonials WHERE status = $1 ORDER BY created_at DESC, id DESC", string(status))
	default:
		return nil, validators.Invalid("status", "must be one of: pending, approved, rejected")
	}
}

func (s *TestimonialService) GetByID(ctx context.Context, id int64) (*models.Testimonial, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+testimonialColumns+" FROM testimonials WHERE id = $1", id)
	t, err := scanTestimonial(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "testimonial %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not load testimonial %d", id)
	}
	return t, nil
}

// Review moves a pending testimonial to approved or rejected. Decided rows
// are final.
func (s *TestimonialService) Review(ctx context.Context, id int64, req models.ReviewRequest) (*models.Testimonial, error) {
	if err := validators.Struct(req); err != nil {
		return nil, err
	}

	var verified interface{}
	if req.Verified != nil {
		verified = *req.Verified
	}

	res, err := s.db.ExecContext(ctx, `
	UPDATE testimonials
	SET status = $1, verified = COALESCE($2, verified)
	WHERE id = $3 AND status = 'pending'`,
		string(req.Status), verified, id,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "could not review testimonial %d", id)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "could not read affected rows")
	}
	if affected == 0 {
		current, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(ErrConflict, "testimonial %d is already %s", id, current.Status)
	}

	log.WithFields(log.Fields{"testimonial_id": id, "status": req.Status}).Info("testimonial reviewed")
	return s.GetByID(ctx, id)
}

func (s *TestimonialService) query(ctx context.Context, sqlQuery string, params ...interface{}) ([]models.Testimonial, error) {
	rows, err := s.db.QueryContext(ctx, sqlQuery, params...)
	if err != nil {
		return nil, errors.Wrap(err, "could not query testimonials")
	}
	defer rows.Close()

	testimonials := []models.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan testimonial")
		}
		testimonials = append(testimonials, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not iterate testimonials")
	}
	return testimonials, nil
}

func scanTestimonial(row scanner) (*models.Testimonial, error) {
	var t models.Testimonial
	var age sql.NullInt64
	var tags, status string
	err := row.Scan(
		&t.ID,
		&t.PatientName,
		&t.Country,
		&age,
		&t.TreatmentType,
		&t.HospitalName,
		&t.DoctorName,
		&t.TreatmentDate,
		&t.Duration,
		&t.CostSaved,
		&t.Rating,
		&t.Text,
		&tags,
		&t.BeforeImage,
		&t.AfterImage,
		&t.Verified,
		&status,
		&t.AccountID,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if age.Valid {
		a := int(age.Int64)
		t.Age = &a
	}
	t.Tags = models.SplitList(tags)
	t.Status = models.TestimonialStatus(status)
	return &t, nil
}
