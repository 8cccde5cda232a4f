package storage

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lendfast/appform/config"
)

var (
	// DB holds the database connection
	DB *sql.DB
	// Err holds database connection error
	Err error
)

const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id         uuid PRIMARY KEY,
	data       jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS submission_steps (
	application_id uuid NOT NULL,
	step           text NOT NULL,
	completed_at   timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (application_id, step)
);
`

// DBConnection create database connection
func DBConnection(DSN string) error {
	log.Println("Connecting to the database")
	var db *sql.DB
	var err error
	for i := 0; i < 3; i++ { // Retry mechanism
		db, err = sql.Open("pgx", DSN)
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second) // Wait before retrying
	}

	if err != nil {
		Err = err
		log.Println("Database connection error")
		return err
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(2 * time.Minute)

	DB = db

	conf := config.ServerConfig()
	if conf.Environment == "local" {
		log.Println("Running migration")
		if _, err := db.ExecContext(context.Background(), schema); err != nil {
			log.Println("err", err)
			return err
		}
	}

	log.Println("DB connection done")

	return nil
}

// GetDB connection
func GetDB() *sql.DB {
	return DB
}

// GetError connection error
func GetError() error {
	return Err
}
