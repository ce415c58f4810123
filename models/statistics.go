package models

type Statistics struct {
	Hospitals        int     `json:"hospitals"`
	Testimonials     int     `json:"testimonials"`
	Inquiries        int     `json:"inquiries"`
	CountriesServed  int     `json:"countriesServed"`
	AverageRating    float64 `json:"averageRating"`
	SatisfactionRate float64 `json:"satisfactionRate"`
}
