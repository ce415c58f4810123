// Package client is the typed query layer used by the web frontend and by
// integration tooling. It mirrors the REST API one method per endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"afyaconnect_back_end_go/assistant"
	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/validators"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrNotSignedIn is returned before any request is made when an endpoint
// needs a bearer token and none is set.
var ErrNotSignedIn = errors.New("sign in required")

// APIError is a non-2xx response decoded from the API's error body.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Hospitals(ctx context.Context) ([]models.Hospital, error) {
	var out []models.Hospital
	err := c.getJSON(ctx, "/api/hospitals", nil, &out)
	return out, err
}

func (c *Client) SearchHospitals(ctx context.Context, query string) ([]models.Hospital, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validators.Required("query")
	}
	var out []models.Hospital
	err := c.getJSON(ctx, "/api/hospitals/search", url.Values{"query": {query}}, &out)
	return out, err
}

func (c *Client) Hospital(ctx context.Context, id int64) (*models.Hospital, error) {
	var out models.Hospital
	if err := c.getJSON(ctx, "/api/hospitals/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FilterHospitals sends only the filter fields that are set.
func (c *Client) FilterHospitals(ctx context.Context, f models.HospitalFilter) ([]models.Hospital, error) {
	var out []models.Hospital
	err := c.getJSON(ctx, "/api/search/hospitals", f.Values(), &out)
	return out, err
}

func (c *Client) RateHospital(ctx context.Context, id int64, rating int) (*models.RatingResult, error) {
	if err := validators.Struct(models.RatingRequest{Rating: rating}); err != nil {
		return nil, err
	}
	var out models.RatingResult
	path := "/api/hospitals/" + strconv.FormatInt(id, 10) + "/ratings"
	if err := c.postJSON(ctx, path, models.RatingRequest{Rating: rating}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Statistics fetches the aggregate numbers. On failure it returns
// DefaultStatistics together with the error so callers can still render.
func (c *Client) Statistics(ctx context.Context) (Statistics, error) {
	var out Statistics
	if err := c.getJSON(ctx, "/api/statistics", nil, &out.Statistics); err != nil {
		log.WithError(err).Debug("statistics unavailable, using defaults")
		return DefaultStatistics(), err
	}
	return out, nil
}

// Testimonials fetches approved testimonials. On failure it returns
// DefaultTestimonials together with the error.
func (c *Client) Testimonials(ctx context.Context, treatmentType string, limit int) ([]models.Testimonial, error) {
	query := url.Values{}
	if t := strings.TrimSpace(treatmentType); t != "" {
		query.Set("treatmentType", t)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out []models.Testimonial
	if err := c.getJSON(ctx, "/api/testimonials", query, &out); err != nil {
		log.WithError(err).Debug("testimonials unavailable, using defaults")
		return DefaultTestimonials(), err
	}
	return out, nil
}

// Image is an in-memory upload.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

type SubmitResult struct {
	Success       bool                     `json:"success"`
	TestimonialID int64                    `json:"testimonialId"`
	Status        models.TestimonialStatus `json:"status"`
}

// SubmitTestimonial checks the sign-in state and every field locally, then
// posts a multipart form. before and after may be nil.
func (c *Client) SubmitTestimonial(ctx context.Context, in models.TestimonialInput, before, after *Image) (*SubmitResult, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotSignedIn
	}

	in.Normalize()
	var fe validators.FieldErrors
	if err := validators.Struct(in); err != nil {
		if !errors.As(err, &fe) {
			return nil, err
		}
	}
	images := []struct {
		field string
		image *Image
	}{{"beforeImage", before}, {"afterImage", after}}
	for _, img := range images {
		if img.image == nil {
			continue
		}
		if e := validators.ImageData(img.field, bytes.NewReader(img.image.Data), int64(len(img.image.Data))); e != nil {
			fe = append(fe, *e)
		}
	}
	if len(fe) > 0 {
		return nil, fe
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, values := range in.FormValues() {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				return nil, errors.Wrap(err, "could not encode form")
			}
		}
	}
	for _, img := range images {
		if img.image == nil {
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, img.field, escapeQuotes(img.image.Filename)))
		h.Set("Content-Type", img.image.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, errors.Wrap(err, "could not encode image")
		}
		if _, err := part.Write(img.image.Data); err != nil {
			return nil, errors.Wrap(err, "could not encode image")
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "could not encode form")
	}

	var out SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/testimonials", nil, &body, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitInquiry validates locally before posting.
func (c *Client) SubmitInquiry(ctx context.Context, in models.InquiryInput) error {
	in.Normalize()
	if err := validators.Struct(in); err != nil {
		return err
	}
	return c.postJSON(ctx, "/api/inquiries", in, nil)
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", validators.Required("message")
	}
	var out assistant.ChatReply
	if err := c.postJSON(ctx, "/api/chat", assistant.ChatMessage{Message: message}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) Recommend(ctx context.Context, req assistant.RecommendationRequest) ([]assistant.Recommendation, error) {
	var out struct {
		Recommendations []assistant.Recommendation `json:"recommendations"`
	}
	if err := c.postJSON(ctx, "/api/recommendations", req, &out); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

// Register creates an account and keeps its token for later calls.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.authenticate(ctx, "/api/auth/register", req)
}

// Login keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) error {
	return c.authenticate(ctx, "/api/auth/login", req)
}

func (c *Client) authenticate(ctx context.Context, path string, req interface{}) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, path, req, &out); err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "could not encode request")
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Fields = payload.Fields
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "could not decode %s response", path)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
