package client

import (
	"time"

	"afyaconnect_back_end_go/models"
)

// Statistics is the aggregate shown on the landing page. Stale marks the
// built-in defaults used when the API is unreachable.
type Statistics struct {
	models.Statistics
	Stale bool `json:"-"`
}

// DefaultStatistics returns a fresh copy of the fallback numbers on every
// call, so callers cannot alter the defaults seen by others.
func DefaultStatistics() Statistics {
	return Statistics{
		Statistics: models.Statistics{
			Hospitals:        2,
			Testimonials:     500,
			Inquiries:        1200,
			CountriesServed:  15,
			AverageRating:    4.8,
			SatisfactionRate: 98,
		},
		Stale: true,
	}
}

// DefaultTestimonials is the showcase used when the API is unreachable.
func DefaultTestimonials() []models.Testimonial {
	return []models.Testimonial{
		{
			PatientName:   "Sarah M.",
			Country:       "Uganda",
			TreatmentType: "Cardiology",
			HospitalName:  "City Medical Center",
			DoctorName:    "Dr. Kamau",
			Rating:        5,
			Text:          "The cardiology team explained every step and I was home within two weeks.",
			Tags:          []string{"cardiology", "heart surgery"},
			Verified:      true,
			Status:        models.StatusApproved,
			CreatedAt:     time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			PatientName:   "David O.",
			Country:       "Tanzania",
			TreatmentType: "Orthopedics",
			HospitalName:  "Central Hospital",
			DoctorName:    "Dr. Mwangi",
			Rating:        5,
			Text:          "My knee replacement cost a fraction of the quote at home and recovery by the coast was wonderful.",
			Tags:          []string{"orthopedics", "knee replacement"},
			Verified:      true,
			Status:        models.StatusApproved,
			CreatedAt:     time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			PatientName:   "Grace N.",
			Country:       "Rwanda",
			TreatmentType: "Oncology",
			HospitalName:  "City Medical Center",
			DoctorName:    "Dr. Achieng",
			Rating:        4,
			Text:          "Chemotherapy was well organised and the international desk handled all my paperwork.",
			Tags:          []string{"oncology"},
			Verified:      true,
			Status:        models.StatusApproved,
			CreatedAt:     time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC),
		},
	}
}
