package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type TestimonialStatus string

const (
	StatusPending  TestimonialStatus = "pending"
	StatusApproved TestimonialStatus = "approved"
	StatusRejected TestimonialStatus = "rejected"
)

type Testimonial struct {
	ID            int64             `json:"id"`
	PatientName   string            `json:"patientName"`
	Country       string            `json:"country"`
	Age           *int              `json:"age,omitempty"`
	TreatmentType string            `json:"treatmentType"`
	HospitalName  string            `json:"hospitalName"`
	DoctorName    string            `json:"doctorName"`
	TreatmentDate string            `json:"treatmentDate,omitempty"`
	Duration      string            `json:"duration,omitempty"`
	CostSaved     string            `json:"costSaved,omitempty"`
	Rating        int               `json:"rating"`
	Text          string            `json:"testimonialText"`
	Tags          []string          `json:"tags"`
	BeforeImage   string            `json:"beforeImage,omitempty"`
	AfterImage    string            `json:"afterImage,omitempty"`
	Verified      bool              `json:"verified"`
	Status        TestimonialStatus `json:"status"`
	AccountID     int64             `json:"accountId"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// TestimonialInput is the submission form. Numeric fields stay strings so a
// malformed value is reported per field instead of failing the whole bind.
type TestimonialInput struct {
	PatientName   string   `form:"patientName" json:"patientName" validate:"required,max=120"`
	Country       string   `form:"country" json:"country" validate:"required,max=100"`
	Age           string   `form:"age" json:"age" validate:"omitempty,number,max=3"`
	TreatmentType string   `form:"treatmentType" json:"treatmentType" validate:"required,max=100"`
	HospitalName  string   `form:"hospitalName" json:"hospitalName" validate:"required,max=255"`
	DoctorName    string   `form:"doctorName" json:"doctorName" validate:"required,max=255"`
	TreatmentDate string   `form:"treatmentDate" json:"treatmentDate" validate:"omitempty,datetime=2006-01-02"`
	Duration      string   `form:"duration" json:"duration" validate:"max=100"`
	CostSaved     string   `form:"costSaved" json:"costSaved" validate:"max=100"`
	Text          string   `form:"testimonialText" json:"testimonialText" validate:"required,max=5000"`
	Rating        string   `form:"rating" json:"rating" validate:"required,oneof=1 2 3 4 5"`
	Tags          []string `form:"tags" json:"tags" validate:"max=10,dive,max=40"`
}

// Normalize trims every field and expands comma-separated tags.
func (in *TestimonialInput) Normalize() {
	for _, field := range []*string{
		&in.PatientName, &in.Country, &in.Age, &in.TreatmentType, &in.HospitalName,
		&in.DoctorName, &in.TreatmentDate, &in.Duration, &in.CostSaved, &in.Text, &in.Rating,
	} {
		*field = strings.TrimSpace(*field)
	}
	in.Tags = SplitList(strings.Join(in.Tags, ","))
}

// FormValues encodes the input as multipart/form fields.
func (in TestimonialInput) FormValues() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("patientName", in.PatientName)
	set("country", in.Country)
	set("age", in.Age)
	set("treatmentType", in.TreatmentType)
	set("hospitalName", in.HospitalName)
	set("doctorName", in.DoctorName)
	set("treatmentDate", in.TreatmentDate)
	set("duration", in.Duration)
	set("costSaved", in.CostSaved)
	set("testimonialText", in.Text)
	set("rating", in.Rating)
	for _, tag := range in.Tags {
		v.Add("tags", tag)
	}
	return v
}

// Testimonial converts a validated input into a pending testimonial.
func (in TestimonialInput) Testimonial(accountID int64) Testimonial {
	t := Testimonial{
		PatientName:   in.PatientName,
		Country:       in.Country,
		TreatmentType: in.TreatmentType,
		HospitalName:  in.HospitalName,
		DoctorName:    in.DoctorName,
		TreatmentDate: in.TreatmentDate,
		Duration:      in.Duration,
		CostSaved:     in.CostSaved,
		Text:          in.Text,
		Tags:          in.Tags,
		Status:        StatusPending,
		AccountID:     accountID,
	}
	t.Rating, _ = strconv.Atoi(in.Rating)
	if age, err := strconv.Atoi(in.Age); err == nil {
		t.Age = &age
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

// ReviewRequest is the moderation decision for a pending testimonial.
type ReviewRequest struct {
	Status   TestimonialStatus `json:"status" validate:"required,oneof=approved rejected"`
	Verified *bool             `json:"verified"`
}
