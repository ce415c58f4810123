package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/validators"

	"github.com/pkg/errors"
)

const hospitalColumns = `id, name, location, city, district, state, country, specialties, treatments,
	description, contact, accreditation, price_min, price_max, rating_average, rating_count, created_at`

type HospitalService struct {
	db *sql.DB
}

func NewHospitalService(db *sql.DB) *HospitalService {
	return &HospitalService{db: db}
}

// List returns every hospital in storage order.
func (s *HospitalService) List(ctx context.Context) ([]models.Hospital, error) {
	return s.query(ctx, "SELECT "+hospitalColumns+" FROM hospitals ORDER BY id")
}

// Search matches term case-insensitively against name, specialties,
// location and city.
func (s *HospitalService) Search(ctx context.Context, term string) ([]models.Hospital, error) {
	if strings.TrimSpace(term) == "" {
		return nil, validators.Required("query")
	}

	return s.query(ctx, `SELECT `+hospitalColumns+` FROM hospitals
		WHERE LOWER(name) LIKE $1 ESCAPE '\'
		OR LOWER(specialties) LIKE $1 ESCAPE '\'
		OR LOWER(location) LIKE $1 ESCAPE '\'
		OR LOWER(city) LIKE $1 ESCAPE '\'
		ORDER BY id`, containsPattern(term))
}

func (s *HospitalService) GetByID(ctx context.Context, id int64) (*models.Hospital, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+hospitalColumns+" FROM hospitals WHERE id = $1", id)
	hospital, err := scanHospital(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "hospital %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not load hospital %d", id)
	}
	return hospital, nil
}

// Filter runs the advanced search. Only set fields narrow the result.
func (s *HospitalService) Filter(ctx context.Context, f models.HospitalFilter) ([]models.Hospital, error) {
	if err := validators.Struct(f); err != nil {
		return nil, err
	}

	var conditions []string
	var params []interface{}
	like := func(column, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		params = append(params, containsPattern(value))
		conditions = append(conditions, fmt.Sprintf(`LOWER(%s) LIKE $%d ESCAPE '\'`, column, len(params)))
	}
	compare := func(expr string, value interface{}) {
		params = append(params, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(params)))
	}

	like("specialties", f.Specialty)
	like("treatments", f.Treatment)
	like("name", f.Hospital)
	like("city", f.City)
	like("district", f.District)
	like("state", f.State)
	like("accreditation", f.Accreditation)
	// price bounds select hospitals whose price range overlaps the budget
	if f.MinPrice > 0 {
		compare("price_max >= $%d", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		compare("price_min <= $%d", f.MaxPrice)
	}
	if f.MinRating > 0 {
		compare("rating_average >= $%d", f.MinRating)
	}

	sqlQuery := "SELECT " + hospitalColumns + " FROM hospitals"
	if len(conditions) > 0 {
		sqlQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	sqlQuery += " ORDER BY " + orderBy(f.Sort)

	return s.query(ctx, sqlQuery, params...)
}

func orderBy(sort models.SortKey) string {
	switch sort {
	case models.SortRating:
		return "rating_average DESC, rating_count DESC, id"
	case models.SortPriceAsc:
		return "price_min ASC, id"
	case models.SortPriceDesc:
		return "price_max DESC, id"
	case models.SortName:
		return "LOWER(name) ASC, id"
	default:
		return "id"
	}
}

// Create adds a listing. Used by the admin API.
func (s *HospitalService) Create(ctx context.Context, in models.NewHospital) (*models.Hospital, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	if err := validators.Struct(in); err != nil {
		return nil, err
	}

	// location always carries the city so location matches imply city matches
	location := strings.TrimSpace(in.Location)
	if !strings.Contains(strings.ToLower(location), strings.ToLower(in.City)) {
		location = strings.Trim(strings.Join([]string{location, in.City, in.Country}, ", "), ", ")
	}

	h := models.Hospital{
		Name:          in.Name,
		Location:      location,
		City:          in.City,
		District:      strings.TrimSpace(in.District),
		State:         strings.TrimSpace(in.State),
		Country:       in.Country,
		Specialties:   models.SplitList(models.JoinList(in.Specialties)),
		Treatments:    models.SplitList(models.JoinList(in.Treatments)),
		Description:   strings.TrimSpace(in.Description),
		Contact:       strings.TrimSpace(in.Contact),
		Accreditation: strings.TrimSpace(in.Accreditation),
		PriceMin:      in.PriceMin,
		PriceMax:      in.PriceMax,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}

	err := s.db.QueryRowContext(ctx, `
	INSERT INTO hospitals (
		name, location, city, district, state, country, specialties, treatments,
		description, contact, accreditation, price_min, price_max, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id`,
		h.Name, h.Location, h.City, h.District, h.State, h.Country,
		models.JoinList(h.Specialties), models.JoinList(h.Treatments),
		h.Description, h.Contact, h.Accreditation, h.PriceMin, h.PriceMax, h.CreatedAt,
	).Scan(&h.ID)
	if err != nil {
		return nil, errors.Wrap(err, "could not insert hospital")
	}
	return &h, nil
}

// SubmitRating folds one rating into the stored average in a single
// statement, so concurrent submissions cannot lose updates.
func (s *HospitalService) SubmitRating(ctx context.Context, id int64, rating int) (*models.RatingResult, error) {
	if err := validators.Struct(models.RatingRequest{Rating: rating}); err != nil {
		return nil, err
	}

	result := models.RatingResult{HospitalID: id}
	err := s.db.QueryRowContext(ctx, `
	UPDATE hospitals
	SET rating_average = (rating_average * rating_count + $1) / (rating_count + 1),
		rating_count = rating_count + 1
	WHERE id = $2
	RETURNING rating_average, rating_count`,
		float64(rating), id,
	).Scan(&result.RatingAverage, &result.RatingCount)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "hospital %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not rate hospital %d", id)
	}
	return &result, nil
}

func (s *HospitalService) query(ctx context.Context, sqlQuery string, params ...interface{}) ([]models.Hospital, error) {
	rows, err := s.db.QueryContext(ctx, sqlQuery, params...)
	if err != nil {
		return nil, errors.Wrap(err, "could not query hospitals")
	}
	defer rows.Close()

	hospitals := []models.Hospital{}
	for rows.Next() {
		hospital, err := scanHospital(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan hospital")
		}
		hospitals = append(hospitals, *hospital)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not iterate hospitals")
	}
	return hospitals, nil
}

func scanHospital(row scanner) (*models.Hospital, error) {
	var h models.Hospital
	var specialties, treatments string
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Location,
		&h.City,
		&h.District,
		&h.State,
		&h.Country,
		&specialties,
		&treatments,
		&h.Description,
		&h.Contact,
		&h.Accreditation,
		&h.PriceMin,
		&h.PriceMax,
		&h.RatingAverage,
		&h.RatingCount,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.Specialties = models.SplitList(specialties)
	h.Treatments = models.SplitList(treatments)
	return &h, nil
}
