package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type seedHospital struct {
	name, location, city, district, state, country string
	specialties, treatments                        string
	description, contact, accreditation            string
	priceMin, priceMax                             int
	ratingAverage                                  float64
	ratingCount                                    int
}

var seedHospitals = []seedHospital{
	{
		name:          "City Medical Center",
		location:      "Upper Hill, Nairobi, Kenya",
		city:          "Nairobi",
		district:      "Upper Hill",
		state:         "Nairobi County",
		country:       "Kenya",
		specialties:   "Cardiology,Orthopedics,Oncology",
		treatments:    "Heart Bypass,Angioplasty,Knee Replacement,Chemotherapy",
		description:   "Multi-specialty referral hospital with a dedicated international patients desk.",
		contact:       "+254 20 000 0001",
		accreditation: "JCI",
		priceMin:      3000,
		priceMax:      15000,
		ratingAverage: 4.8,
		ratingCount:   120,
	},
	{
		name:          "Central Hospital",
		location:      "Nyali, Mombasa, Kenya",
		city:          "Mombasa",
		district:      "Nyali",
		state:         "Mombasa County",
		country:       "Kenya",
		specialties:   "Orthopedics,Dermatology,General Surgery",
		treatments:    "Hip Replacement,Skin Grafting,Appendectomy",
		description:   "Coastal general hospital known for short surgical waiting times.",
		contact:       "+254 41 000 0002",
		accreditation: "KENAS",
		priceMin:      1500,
		priceMax:      8000,
		ratingAverage: 4.5,
		ratingCount:   85,
	},
}

// Seed inserts the seed hospitals when the hospitals table is empty and
// returns the number of rows inserted.
func Seed(ctx context.Context, conn *sql.DB) (int, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "could not begin seed transaction")
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM hospitals").Scan(&count); err != nil {
		return 0, errors.Wrap(err, "could not count hospitals")
	}
	if count > 0 {
		log.WithField("hospitals", count).Debug("store already populated, skipping seed")
		return 0, nil
	}

	for _, h := range seedHospitals {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO hospitals (
			name, location, city, district, state, country, specialties, treatments,
			description, contact, accreditation, price_min, price_max, rating_average, rating_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			h.name, h.location, h.city, h.district, h.state, h.country, h.specialties, h.treatments,
			h.description, h.contact, h.accreditation, h.priceMin, h.priceMax, h.ratingAverage, h.ratingCount,
		)
		if err != nil {
			return 0, errors.Wrapf(err, "could not seed hospital %q", h.name)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "could not commit seed transaction")
	}

	log.WithField("hospitals", len(seedHospitals)).Info("seeded empty store")
	return len(seedHospitals), nil
}
