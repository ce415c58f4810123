package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"afyaconnect_back_end_go/auth"
	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/validators"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	db     *sql.DB
	issuer *auth.TokenIssuer
}

func NewAccountService(db *sql.DB, issuer *auth.TokenIssuer) *AccountService {
	return &AccountService{db: db, issuer: issuer}
}

// Register creates a patient account and returns a token for it.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := validators.Struct(req); err != nil {
		return "", err
	}

	id, err := s.create(ctx, req.Email, req.Password, req.Name, models.RolePatient)
	if err != nil {
		return "", err
	}
	return s.issuer.Issue(id, models.RolePatient)
}

func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validators.Struct(req); err != nil {
		return "", err
	}

	var id int64
	var hash, role string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, password_hash, role FROM accounts WHERE email = $1", req.Email,
	).Scan(&id, &hash, &role)
	if err == sql.ErrNoRows {
		return "", errors.Wrap(ErrUnauthorized, "invalid email or password")
	}
	if err != nil {
		return "", errors.Wrap(err, "could not load account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return "", errors.Wrap(ErrUnauthorized, "invalid email or password")
	}
	return s.issuer.Issue(id, role)
}

// EnsureAdmin creates the bootstrap admin account unless the email is
// already registered.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	_, err := s.create(ctx, email, password, "Administrator", models.RoleAdmin)
	if errors.Is(err, ErrConflict) {
		log.WithField("email", email).Debug("admin account already exists")
		return nil
	}
	if err != nil {
		return err
	}
	log.WithField("email", email).Info("created admin account")
	return nil
}

func (s *AccountService) create(ctx context.Context, email, password, name, role string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, errors.Wrap(err, "could not hash password")
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
	INSERT INTO accounts (email, password_hash, name, role, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (email) DO NOTHING
	RETURNING id`,
		email, string(hash), name, role, time.Now().UTC().Truncate(time.Second),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, errors.Wrapf(ErrConflict, "email %s is already registered", email)
	}
	if err != nil {
		return 0, errors.Wrap(err, "could not insert account")
	}
	return id, nil
}
