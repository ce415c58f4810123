package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/storage"
	"afyaconnect_back_end_go/validators"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestimonialInput() models.TestimonialInput {
	return models.TestimonialInput{
		PatientName:   "Amina Yusuf",
		Country:       "Tanzania",
		Age:           "42",
		TreatmentType: "Cardiology",
		HospitalName:  "City Medical Center",
		DoctorName:    "Dr. Otieno",
		TreatmentDate: "2024-03-01",
		Text:          "The care team was outstanding from arrival to discharge.",
		Rating:        "5",
		Tags:          []string{"cardiology, bypass"},
	}
}

func newTestimonialService(t *testing.T) (*TestimonialService, string) {
	t.Helper()
	dir := t.TempDir()
	images, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	return NewTestimonialService(newTestDB(t), images), dir
}

func approve(t *testing.T, svc *TestimonialService, id int64) {
	t.Helper()
	_, err := svc.Review(context.Background(), id, models.ReviewRequest{Status: models.StatusApproved})
	require.NoError(t, err)
}

func TestTestimonialSubmitCreatesPendingRow(t *testing.T) {
	svc, dir := newTestimonialService(t)
	ctx := context.Background()

	before := fileHeader(t, "beforeImage", "before.png", "image/png", pngData)
	created, err := svc.Submit(ctx, 7, validTestimonialInput(), before, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, int64(7), created.AccountID)
	assert.Equal(t, []string{"cardiology", "bypass"}, created.Tags)
	require.NotNil(t, created.Age)
	assert.Equal(t, 42, *created.Age)
	assert.Regexp(t, `^/uploads/[0-9a-f-]+\.png$`, created.BeforeImage)
	assert.Empty(t, created.AfterImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.BeforeImage, stored.BeforeImage)
	assert.False(t, stored.Verified)
}

func TestTestimonialSubmitRejectsBeforePersisting(t *testing.T) {
	svc, dir := newTestimonialService(t)
	ctx := context.Background()

	in := validTestimonialInput()
	in.DoctorName = ""
	in.Rating = "9"
	before := fileHeader(t, "beforeImage", "before.png", "image/png", pngData)
	after := fileHeader(t, "afterImage", "notes.txt", "text/plain", []byte("hello"))

	_, err := svc.Submit(ctx, 1, in, before, after)
	var fe validators.FieldErrors
	require.True(t, errors.As(err, &fe))
	fields := fe.Map()
	assert.Contains(t, fields, "doctorName")
	assert.Contains(t, fields, "rating")
	assert.Contains(t, fields, "afterImage")

	assert.Equal(t, 0, countRows(t, svc.db, "testimonials"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTestimonialImageTypeComesFromContent(t *testing.T) {
	svc, dir := newTestimonialService(t)
	ctx := context.Background()

	script := fileHeader(t, "beforeImage", "x.html", "image/png", []byte("<script>alert(1)</script>"))
	_, err := svc.Submit(ctx, 1, validTestimonialInput(), script, nil)
	var fe validators.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "must be a JPEG, PNG, GIF or WebP image", fe.Map()["beforeImage"])
	assert.Equal(t, 0, countRows(t, svc.db, "testimonials"))

	// a real image keeps an image extension whatever the client called it
	renamed := fileHeader(t, "afterImage", "x.html", "text/html", pngData)
	created, err := svc.Submit(ctx, 1, validTestimonialInput(), nil, renamed)
	require.NoError(t, err)
	assert.Regexp(t, `^/uploads/[0-9a-f-]+\.png$`, created.AfterImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".png", filepath.Ext(entries[0].Name()))
}

func TestTestimonialPendingIsHiddenUntilApproved(t *testing.T) {
	svc, _ := newTestimonialService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, 1, validTestimonialInput(), nil, nil)
	require.NoError(t, err)

	list, err := svc.ListApproved(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	approve(t, svc, created.ID)

	list, err = svc.ListApproved(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestTestimonialListApprovedFiltersAndLimits(t *testing.T) {
	svc, _ := newTestimonialService(t)
	ctx := context.Background()

	var ids []int64
	for _, treatment := range []string{"Cardiology", "Orthopedics", "Cardiology"} {
		in := validTestimonialInput()
		in.TreatmentType = treatment
		created, err := svc.Submit(ctx, 1, in, nil, nil)
		require.NoError(t, err)
		approve(t, svc, created.ID)
		ids = append(ids, created.ID)
	}

	all, err := svc.ListApproved(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, ids[2], all[0].ID)

	cardio, err := svc.ListApproved(ctx, "cardiology", 0)
	require.NoError(t, err)
	assert.Len(t, cardio, 2)

	unknown, err := svc.ListApproved(ctx, "Dentistry", 0)
	require.NoError(t, err)
	assert.Len(t, unknown, 3)

	limited, err := svc.ListApproved(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	limitedCardio, err := svc.ListApproved(ctx, "Cardiology", 1)
	require.NoError(t, err)
	require.Len(t, limitedCardio, 1)
	assert.Equal(t, ids[2], limitedCardio[0].ID)
}

func TestTestimonialReview(t *testing.T) {
	svc, _ := newTestimonialService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, 1, validTestimonialInput(), nil, nil)
	require.NoError(t, err)

	verified := true
	reviewed, err := svc.Review(ctx, created.ID, models.ReviewRequest{Status: models.StatusApproved, Verified: &verified})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, reviewed.Status)
	assert.True(t, reviewed.Verified)

	_, err = svc.Review(ctx, created.ID, models.ReviewRequest{Status: models.StatusRejected})
	assert.True(t, errors.Is(err, ErrConflict))

	_, err = svc.Review(ctx, 999, models.ReviewRequest{Status: models.StatusApproved})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.Review(ctx, created.ID, models.ReviewRequest{Status: models.StatusPending})
	var fe validators.FieldErrors
	assert.True(t, errors.As(err, &fe))
}

func TestTestimonialListByStatus(t *testing.T) {
	svc, _ := newTestimonialService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, 1, validTestimonialInput(), nil, nil)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 1, validTestimonialInput(), nil, nil)
	require.NoError(t, err)
	_, err = svc.Review(ctx, first.ID, models.ReviewRequest{Status: models.StatusRejected})
	require.NoError(t, err)

	pending, err := svc.ListByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	rejected, err := svc.ListByStatus(ctx, models.StatusRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, first.ID, rejected[0].ID)

	all, err := svc.ListByStatus(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListByStatus(ctx, "archived")
	var fe validators.FieldErrors
	assert.True(t, errors.As(err, &fe))
}
