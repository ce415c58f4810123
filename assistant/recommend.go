package assistant

import (
	"context"
	"strings"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/validators"

	"github.com/pkg/errors"
)

type CostRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Recommendation struct {
	Treatment     string            `json:"treatment"`
	Specialty     string            `json:"specialty"`
	EstimatedCost CostRange         `json:"estimatedCost"`
	Reason        string            `json:"reason"`
	Hospitals     []models.Hospital `json:"hospitals"`
}

// RecommendationRule maps condition keywords to a suggested treatment.
type RecommendationRule struct {
	Keywords       []string
	Recommendation Recommendation
}

type RecommendationRequest struct {
	Condition string `json:"condition" validate:"required,max=500"`
	Budget    int    `json:"budget" validate:"gte=0"`
}

// HospitalFinder is satisfied by services.HospitalService.
type HospitalFinder interface {
	Filter(ctx context.Context, f models.HospitalFilter) ([]models.Hospital, error)
}

type Advisor struct {
	rules     []RecommendationRule
	fallback  Recommendation
	hospitals HospitalFinder
}

func NewAdvisor(hospitals HospitalFinder) *Advisor {
	return &Advisor{rules: defaultRecommendations, fallback: generalConsultation, hospitals: hospitals}
}

// Recommend returns every rule matching the condition, each with the
// hospitals offering its specialty within budget. A budget of zero means no
// limit. Conditions matching no rule get a general consultation.
func (a *Advisor) Recommend(ctx context.Context, req RecommendationRequest) ([]Recommendation, error) {
	req.Condition = strings.TrimSpace(req.Condition)
	if err := validators.Struct(req); err != nil {
		return nil, err
	}

	text := normalize(req.Condition)
	var matched []Recommendation
	for _, rule := range a.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, " "+keyword) {
				matched = append(matched, rule.Recommendation)
				break
			}
		}
	}
	if len(matched) == 0 {
		matched = []Recommendation{a.fallback}
	}

	for i := range matched {
		rec := &matched[i]
		if req.Budget > 0 && rec.EstimatedCost.Min > req.Budget {
			rec.Reason += " The usual cost is above your budget, so the hospitals below are the closest options."
		}
		filter := models.HospitalFilter{Specialty: rec.Specialty, MaxPrice: req.Budget, Sort: models.SortRating}
		hospitals, err := a.hospitals.Filter(ctx, filter)
		if err != nil {
			return nil, errors.Wrapf(err, "could not find hospitals for %s", rec.Specialty)
		}
		rec.Hospitals = hospitals
	}
	return matched, nil
}

var generalConsultation = Recommendation{
	Treatment:     "Specialist consultation",
	Specialty:     "",
	EstimatedCost: CostRange{Min: 50, Max: 200},
	Reason:        "A specialist consultation is the best first step to confirm a diagnosis and plan treatment.",
}

var defaultRecommendations = []RecommendationRule{
	{
		Keywords: []string{"heart", "cardiac", "cardio", "chest", "artery", "arteries"},
		Recommendation: Recommendation{
			Treatment:     "Coronary angioplasty or bypass surgery",
			Specialty:     "Cardiology",
			EstimatedCost: CostRange{Min: 5000, Max: 15000},
			Reason:        "Blocked or narrowed coronary arteries are treated with angioplasty, or bypass surgery for advanced disease.",
		},
	},
	{
		Keywords: []string{"knee", "hip", "joint", "arthritis", "ortho"},
		Recommendation: Recommendation{
			Treatment:     "Joint replacement",
			Specialty:     "Orthopedics",
			EstimatedCost: CostRange{Min: 4000, Max: 9000},
			Reason:        "Severe joint pain from arthritis or injury is commonly relieved by knee or hip replacement.",
		},
	},
	{
		Keywords: []string{"cancer", "tumor", "tumour", "oncolog", "chemo"},
		Recommendation: Recommendation{
			Treatment:     "Oncology assessment and chemotherapy",
			Specialty:     "Oncology",
			EstimatedCost: CostRange{Min: 3000, Max: 12000},
			Reason:        "An oncology team will stage the disease and plan chemotherapy, surgery or both.",
		},
	},
	{
		Keywords: []string{"skin", "burn", "derma", "eczema", "scar"},
		Recommendation: Recommendation{
			Treatment:     "Dermatology treatment",
			Specialty:     "Dermatology",
			EstimatedCost: CostRange{Min: 200, Max: 3000},
			Reason:        "Skin conditions and burn scars are treated by dermatologists, with grafting when needed.",
		},
	},
	{
		Keywords: []string{"appendix", "appendic", "hernia", "gallbladder", "gallstone", "surgery"},
		Recommendation: Recommendation{
			Treatment:     "General surgery",
			Specialty:     "General Surgery",
			EstimatedCost: CostRange{Min: 1500, Max: 5000},
			Reason:        "Conditions such as appendicitis, hernia and gallstones are handled by general surgeons.",
		},
	},
}
