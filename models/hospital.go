package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Hospital struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	City          string    `json:"city"`
	District      string    `json:"district"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	Specialties   []string  `json:"specialties"`
	Treatments    []string  `json:"treatments"`
	Description   string    `json:"description"`
	Contact       string    `json:"contact"`
	Accreditation string    `json:"accreditation"`
	PriceMin      int       `json:"priceMin"`
	PriceMax      int       `json:"priceMax"`
	RatingAverage float64   `json:"ratingAverage"`
	RatingCount   int       `json:"ratingCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewHospital is the admin payload for adding a listing.
type NewHospital struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Location      string   `json:"location" validate:"max=255"`
	City          string   `json:"city" validate:"required,max=100"`
	District      string   `json:"district" validate:"max=100"`
	State         string   `json:"state" validate:"max=100"`
	Country       string   `json:"country" validate:"required,max=100"`
	Specialties   []string `json:"specialties" validate:"dive,required"`
	Treatments    []string `json:"treatments" validate:"dive,required"`
	Description   string   `json:"description"`
	Contact       string   `json:"contact" validate:"max=255"`
	Accreditation string   `json:"accreditation" validate:"max=100"`
	PriceMin      int      `json:"priceMin" validate:"gte=0"`
	PriceMax      int      `json:"priceMax" validate:"gte=0,gtefield=PriceMin"`
}

type RatingRequest struct {
	Rating int `json:"rating" validate:"min=1,max=5"`
}

type RatingResult struct {
	HospitalID    int64   `json:"hospitalId"`
	RatingAverage float64 `json:"ratingAverage"`
	RatingCount   int     `json:"ratingCount"`
}

type SortKey string

const (
	SortNone      SortKey = ""
	SortRating    SortKey = "rating"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortName      SortKey = "name"
)

// HospitalFilter is the advanced search form. Zero values mean "not set".
type HospitalFilter struct {
	Specialty     string  `form:"specialty" json:"specialty,omitempty"`
	Treatment     string  `form:"treatment" json:"treatment,omitempty"`
	Hospital      string  `form:"hospital" json:"hospital,omitempty"`
	City          string  `form:"city" json:"city,omitempty"`
	District      string  `form:"district" json:"district,omitempty"`
	State         string  `form:"state" json:"state,omitempty"`
	MinPrice      int     `form:"minPrice" json:"minPrice,omitempty" validate:"gte=0"`
	MaxPrice      int     `form:"maxPrice" json:"maxPrice,omitempty" validate:"gte=0"`
	Accreditation string  `form:"accreditation" json:"accreditation,omitempty"`
	MinRating     float64 `form:"minRating" json:"minRating,omitempty" validate:"gte=0,lte=5"`
	Sort          SortKey `form:"sort" json:"sort,omitempty" validate:"omitempty,oneof=rating price_asc price_desc name"`
}

// Values encodes only the fields that are set, so cleared filters never
// reach the server as empty parameters.
func (f HospitalFilter) Values() url.Values {
	v := f.filterValues()
	if sort := strings.TrimSpace(string(f.Sort)); sort != "" {
		v.Set("sort", sort)
	}
	return v
}

// Active reports whether any narrowing filter is set. Sort order alone does
// not count.
func (f HospitalFilter) Active() bool {
	return len(f.filterValues()) > 0
}

func (f HospitalFilter) filterValues() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			v.Set(key, value)
		}
	}
	set("specialty", f.Specialty)
	set("treatment", f.Treatment)
	set("hospital", f.Hospital)
	set("city", f.City)
	set("district", f.District)
	set("state", f.State)
	set("accreditation", f.Accreditation)
	if f.MinPrice > 0 {
		v.Set("minPrice", strconv.Itoa(f.MinPrice))
	}
	if f.MaxPrice > 0 {
		v.Set("maxPrice", strconv.Itoa(f.MaxPrice))
	}
	if f.MinRating > 0 {
		v.Set("minRating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	return v
}

// SplitList turns a comma-separated column into a list.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(strings.ReplaceAll(item, ",", " ")); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return strings.Join(cleaned, ",")
}
