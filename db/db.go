package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// InitDatabase opens the store and creates missing tables.
// Queries throughout the repo use $n placeholders, which both drivers accept
// as long as they first appear in ascending order.
func InitDatabase(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if driver == DriverSQLite {
		// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	for _, query := range schema {
		if _, err := conn.ExecContext(ctx, query); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "failed to create table")
		}
	}

	log.WithFields(log.Fields{"driver": driver}).Info("database ready")
	return conn, nil
}

var schemas = map[string][]string{
	DriverSQLite: {
		`PRAGMA foreign_keys = ON`,

		`CREATE TABLE IF NOT EXISTS hospitals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			district TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			specialties TEXT NOT NULL DEFAULT '',
			treatments TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			contact TEXT NOT NULL DEFAULT '',
			accreditation TEXT NOT NULL DEFAULT '',
			price_min INTEGER NOT NULL DEFAULT 0,
			price_max INTEGER NOT NULL DEFAULT 0,
			rating_average REAL NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'patient',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS testimonials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			patient_name TEXT NOT NULL,
			country TEXT NOT NULL,
			age INTEGER,
			treatment_type TEXT NOT NULL,
			hospital_name TEXT NOT NULL,
			doctor_name TEXT NOT NULL,
			treatment_date TEXT NOT NULL DEFAULT '',
			duration TEXT NOT NULL DEFAULT '',
			cost_saved TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			body TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '',
			before_image TEXT NOT NULL DEFAULT '',
			after_image TEXT NOT NULL DEFAULT '',
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL DEFAULT 'pending',
			account_id INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS inquiries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hospital_name TEXT NOT NULL,
			patient_name TEXT NOT NULL,
			patient_email TEXT NOT NULL,
			patient_phone TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},

	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS hospitals (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			location VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			district VARCHAR(100) NOT NULL DEFAULT '',
			state VARCHAR(100) NOT NULL DEFAULT '',
			country VARCHAR(100) NOT NULL DEFAULT '',
			specialties TEXT NOT NULL DEFAULT '',
			treatments TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			contact VARCHAR(255) NOT NULL DEFAULT '',
			accreditation VARCHAR(100) NOT NULL DEFAULT '',
			price_min INTEGER NOT NULL DEFAULT 0,
			price_max INTEGER NOT NULL DEFAULT 0,
			rating_average DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'patient',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS testimonials (
			id SERIAL PRIMARY KEY,
			patient_name VARCHAR(120) NOT NULL,
			country VARCHAR(100) NOT NULL,
			age INTEGER,
			treatment_type VARCHAR(100) NOT NULL,
			hospital_name VARCHAR(255) NOT NULL,
			doctor_name VARCHAR(255) NOT NULL,
			treatment_date VARCHAR(10) NOT NULL DEFAULT '',
			duration VARCHAR(100) NOT NULL DEFAULT '',
			cost_saved VARCHAR(100) NOT NULL DEFAULT '',
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			body TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '',
			before_image TEXT NOT NULL DEFAULT '',
			after_image TEXT NOT NULL DEFAULT '',
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			account_id INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS inquiries (
			id SERIAL PRIMARY KEY,
			hospital_name VARCHAR(255) NOT NULL,
			patient_name VARCHAR(255) NOT NULL,
			patient_email VARCHAR(255) NOT NULL,
			patient_phone VARCHAR(50) NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
	},
}
