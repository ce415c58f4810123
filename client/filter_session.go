package client

import (
	"context"
	"sync"

	"afyaconnect_back_end_go/models"

	"github.com/pkg/errors"
)

// ErrSuperseded is returned by a query whose result arrived after a newer
// query had started. Its result is discarded.
var ErrSuperseded = errors.New("superseded by a newer query")

// FilterSession holds the advanced search form state. Only the latest query
// may update Results; starting a query cancels the one in flight.
type FilterSession struct {
	client *Client

	mu      sync.Mutex
	filter  models.HospitalFilter
	results []models.Hospital
	seq     uint64
	cancel  context.CancelFunc
}

func NewFilterSession(c *Client) *FilterSession {
	return &FilterSession{client: c}
}

func (s *FilterSession) Filter() models.HospitalFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *FilterSession) Results() []models.Hospital {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Update edits the form. It queries only when the edit cleared the last
// active filter, and reports whether it did.
func (s *FilterSession) Update(ctx context.Context, edit func(*models.HospitalFilter)) (bool, error) {
	s.mu.Lock()
	wasActive := s.filter.Active()
	edit(&s.filter)
	refresh := wasActive && !s.filter.Active()
	s.mu.Unlock()

	if !refresh {
		return false, nil
	}
	_, err := s.Submit(ctx)
	return true, err
}

// Clear resets every filter, keeping the sort order.
func (s *FilterSession) Clear(ctx context.Context) (bool, error) {
	return s.Update(ctx, func(f *models.HospitalFilter) {
		*f = models.HospitalFilter{Sort: f.Sort}
	})
}

// Submit runs the query for the current form.
func (s *FilterSession) Submit(ctx context.Context) ([]models.Hospital, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.seq++
	seq := s.seq
	s.cancel = cancel
	filter := s.filter
	s.mu.Unlock()
	defer cancel()

	hospitals, err := s.client.FilterHospitals(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	s.results = hospitals
	return hospitals, nil
}
