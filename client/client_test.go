package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"afyaconnect_back_end_go/assistant"
	"afyaconnect_back_end_go/auth"
	"afyaconnect_back_end_go/db"
	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/notify"
	"afyaconnect_back_end_go/routes"
	"afyaconnect_back_end_go/services"
	"afyaconnect_back_end_go/storage"
	"afyaconnect_back_end_go/validators"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	conn, err := db.InitDatabase(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "afya.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = db.Seed(ctx, conn)
	require.NoError(t, err)

	uploadDir := t.TempDir()
	images, err := storage.NewLocalStore(uploadDir, "/uploads")
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	sm := services.NewServiceManager(conn, services.Dependencies{Images: images, Notifier: notify.LogNotifier{}, Issuer: issuer})
	bot := assistant.DefaultBot()

	srv := httptest.NewServer(routes.NewRouter(routes.Options{
		Services:  sm,
		Issuer:    issuer,
		Bot:       bot,
		Advisor:   assistant.NewAdvisor(sm.Hospitals),
		Hub:       assistant.NewHub(bot, nil),
		UploadDir: uploadDir,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestClientAgainstAPI(t *testing.T) {
	srv := newAPIServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	hospitals, err := c.Hospitals(ctx)
	require.NoError(t, err)
	assert.Len(t, hospitals, 2)

	found, err := c.SearchHospitals(ctx, "cardio")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "City Medical Center", found[0].Name)

	_, err = c.Hospital(ctx, 999)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	filtered, err := c.FilterHospitals(ctx, models.HospitalFilter{Specialty: "dermatology"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Central Hospital", filtered[0].Name)

	rating, err := c.RateHospital(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 121, rating.RatingCount)

	require.NoError(t, c.SubmitInquiry(ctx, models.InquiryInput{
		HospitalName: "City Medical Center",
		PatientName:  "Jane Doe",
		PatientEmail: "jane@example.com",
		Message:      "I need a heart checkup",
	}))

	reply, err := c.Chat(ctx, "Do I need a visa?")
	require.NoError(t, err)
	assert.Contains(t, reply, "eTA")

	recs, err := c.Recommend(ctx, assistant.RecommendationRequest{Condition: "skin burn"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Dermatology", recs[0].Specialty)

	stats, err := c.Statistics(ctx)
	require.NoError(t, err)
	assert.False(t, stats.Stale)
	assert.Equal(t, 1, stats.Inquiries)
}

func TestClientSubmitTestimonial(t *testing.T) {
	srv := newAPIServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	in := models.TestimonialInput{
		PatientName:   "Amina Yusuf",
		Country:       "Tanzania",
		TreatmentType: "Cardiology",
		HospitalName:  "City Medical Center",
		DoctorName:    "Dr. Otieno",
		Text:          "Outstanding care.",
		Rating:        "5",
		Tags:          []string{"heart"},
	}

	_, err := c.SubmitTestimonial(ctx, in, nil, nil)
	assert.Equal(t, ErrNotSignedIn, err)

	require.NoError(t, c.Register(ctx, models.RegisterRequest{Email: "amina@example.com", Password: "s3cret-pass", Name: "Amina"}))
	require.NotEmpty(t, c.Token())

	before := &Image{Filename: "before.png", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")}
	result, err := c.SubmitTestimonial(ctx, in, before, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, models.StatusPending, result.Status)
	assert.NotZero(t, result.TestimonialID)

	// pending testimonials are not public yet
	list, err := c.Testimonials(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClientValidatesLocally(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		writeJSON(w, http.StatusOK, gin.H{})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("token"))
	ctx := context.Background()

	_, err := c.SubmitTestimonial(ctx, models.TestimonialInput{PatientName: "Amina"}, nil,
		&Image{Filename: "after.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	var fe validators.FieldErrors
	require.True(t, errors.As(err, &fe))
	fields := fe.Map()
	for _, field := range []string{"country", "treatmentType", "hospitalName", "doctorName", "testimonialText", "rating", "afterImage"} {
		assert.Contains(t, fields, field)
	}

	err = c.SubmitInquiry(ctx, models.InquiryInput{HospitalName: "X", PatientName: "Y", PatientEmail: "y@example.com"})
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "message is required", fe.Error())

	_, err = c.SearchHospitals(ctx, "  ")
	assert.Error(t, err)
	_, err = c.Chat(ctx, "")
	assert.Error(t, err)
	_, err = c.RateHospital(ctx, 1, 9)
	assert.Error(t, err)

	assert.Zero(t, atomic.LoadInt32(&requests))
}

func TestStatisticsFallsBackToDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}))
	defer srv.Close()

	stats, err := New(srv.URL).Statistics(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "internal server error", apiErr.Message)
	assert.True(t, stats.Stale)
	assert.Equal(t, DefaultStatistics(), stats)

	stats.Hospitals = 99
	assert.Equal(t, 2, DefaultStatistics().Hospitals)
}

func TestTestimonialsFallBackToDefaults(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	list, err := New(srv.URL).Testimonials(context.Background(), "Cardiology", 3)
	assert.Error(t, err)
	assert.Equal(t, DefaultTestimonials(), list)
}

type filterServer struct {
	mu      sync.Mutex
	queries []url.Values
}

func (s *filterServer) record(r *http.Request) {
	s.mu.Lock()
	s.queries = append(s.queries, r.URL.Query())
	s.mu.Unlock()
}

func (s *filterServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func TestFilterSessionRefreshesOnceWhenLastFilterCleared(t *testing.T) {
	fs := &filterServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.record(r)
		writeJSON(w, http.StatusOK, []models.Hospital{{ID: 1, Name: "City Medical Center"}})
	}))
	defer srv.Close()

	session := NewFilterSession(New(srv.URL))
	ctx := context.Background()

	refreshed, err := session.Update(ctx, func(f *models.HospitalFilter) { f.Specialty = "Cardiology" })
	require.NoError(t, err)
	assert.False(t, refreshed)
	refreshed, err = session.Update(ctx, func(f *models.HospitalFilter) { f.MinPrice = 1000 })
	require.NoError(t, err)
	assert.False(t, refreshed)

	_, err = session.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, fs.count())
	assert.Equal(t, url.Values{"specialty": {"Cardiology"}, "minPrice": {"1000"}}, fs.queries[0])

	// one filter still active
	refreshed, err = session.Update(ctx, func(f *models.HospitalFilter) { f.Specialty = "" })
	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.Equal(t, 1, fs.count())

	refreshed, err = session.Update(ctx, func(f *models.HospitalFilter) { f.MinPrice = 0 })
	require.NoError(t, err)
	assert.True(t, refreshed)
	require.Equal(t, 2, fs.count())
	assert.Empty(t, fs.queries[1])

	// nothing active, nothing to refresh
	refreshed, err = session.Clear(ctx)
	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.Equal(t, 2, fs.count())

	_, err = session.Update(ctx, func(f *models.HospitalFilter) { f.City = "Nairobi"; f.Sort = models.SortRating })
	require.NoError(t, err)
	refreshed, err = session.Clear(ctx)
	require.NoError(t, err)
	assert.True(t, refreshed)
	require.Equal(t, 3, fs.count())
	assert.Equal(t, url.Values{"sort": {"rating"}}, fs.queries[2])
	assert.Len(t, session.Results(), 1)
}

func TestFilterSessionDiscardsStaleResponses(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("specialty") == "slow" {
			close(started)
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			writeJSON(w, http.StatusOK, []models.Hospital{{ID: 2, Name: "Stale"}})
			return
		}
		writeJSON(w, http.StatusOK, []models.Hospital{{ID: 1, Name: "Fresh"}})
	}))
	defer srv.Close()

	session := NewFilterSession(New(srv.URL))
	ctx := context.Background()

	_, err := session.Update(ctx, func(f *models.HospitalFilter) { f.Specialty = "slow" })
	require.NoError(t, err)

	slowErr := make(chan error, 1)
	go func() {
		_, err := session.Submit(ctx)
		slowErr <- err
	}()
	<-started

	_, err = session.Update(ctx, func(f *models.HospitalFilter) { f.Specialty = "fast" })
	require.NoError(t, err)
	fresh, err := session.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	assert.Equal(t, ErrSuperseded, <-slowErr)
	require.Len(t, session.Results(), 1)
	assert.Equal(t, "Fresh", session.Results()[0].Name)
}
