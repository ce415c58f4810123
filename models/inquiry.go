package models

import (
	"strings"
	"time"
)

type Inquiry struct {
	ID           int64     `json:"id"`
	HospitalName string    `json:"hospitalName"`
	PatientName  string    `json:"patientName"`
	PatientEmail string    `json:"patientEmail"`
	PatientPhone string    `json:"patientPhone,omitempty"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
}

type InquiryInput struct {
	HospitalName string `json:"hospitalName" validate:"required,max=255"`
	PatientName  string `json:"patientName" validate:"required,max=255"`
	PatientEmail string `json:"patientEmail" validate:"required,email"`
	PatientPhone string `json:"patientPhone" validate:"max=50"`
	Message      string `json:"message" validate:"required,max=5000"`
}

func (in *InquiryInput) Normalize() {
	in.HospitalName = strings.TrimSpace(in.HospitalName)
	in.PatientName = strings.TrimSpace(in.PatientName)
	in.PatientEmail = strings.TrimSpace(in.PatientEmail)
	in.PatientPhone = strings.TrimSpace(in.PatientPhone)
	in.Message = strings.TrimSpace(in.Message)
}
