package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"github.com/mbacke/orienta-api/config"
)

// BootstrapStore runs the raw-SQL setup GORM cannot express: the
// Postgres enum types referenced by column tags must exist before
// AutoMigrate creates the tables.
type BootstrapStore struct {
	db *sql.DB
}

// StartBootstrap opens a plain database/sql connection for DDL setup
func StartBootstrap() (*BootstrapStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	connectStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv.DB_HOST,
		getEnv.DB_PORT,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_SSL_MODE,
	)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		log.Println("Unable to connect to PostgreSQL for bootstrap:", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &BootstrapStore{db: db}, nil
}

// InitEnums creates the enum types used by the account table
func (s *BootstrapStore) InitEnums() error {
	log.Println("Initializing PostgreSQL enum types...")

	statements := []string{
		`DO $$ BEGIN
			CREATE TYPE account_role AS ENUM ('student', 'admin');
		EXCEPTION
			WHEN duplicate_object THEN null;
		END $$;`,
		`DO $$ BEGIN
			CREATE TYPE account_status AS ENUM ('active', 'inactive', 'suspended');
		EXCEPTION
			WHEN duplicate_object THEN null;
		END $$;`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create enum type: %w", err)
		}
	}

	return nil
}

// Close closes the bootstrap connection
func (s *BootstrapStore) Close() error {
	return s.db.Close()
}
