package database

import (
	"fmt"
	"log"
	"time"

	"github.com/mbacke/orienta-api/config"
	"github.com/mbacke/orienta-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage defines the interface the boundary layer depends on
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() interface{} // Returns *gorm.DB
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey,
	// which the account service relies on for the registration race.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init creates the enum types and runs AutoMigrate for all models
func (s *GORMStore) Init() error {
	bootstrap, err := StartBootstrap()
	if err != nil {
		return err
	}
	defer bootstrap.Close()

	if err := bootstrap.InitEnums(); err != nil {
		return err
	}

	log.Println("Running GORM AutoMigrate for all models...")

	err = s.db.AutoMigrate(
		// Account models
		&model.User{},
		&model.StudentProfile{},

		// Catalogue models
		&model.CatalogueEntry{},
		&model.CatalogueConsultation{},

		// Q&A models
		&model.ChatbotSystem{},
		&model.Question{},
		&model.Answer{},

		// Notification models
		&model.Notification{},
		&model.Reception{},

		// FAQ
		&model.FAQEntry{},

		// Orientation test and payment ledgers
		&model.OrientationTestRecord{},
		&model.Payment{},

		// Token blacklist
		&model.JWTTokenBlacklist{},

		// Background job logs
		&model.CronJobLog{},
	)

	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services/handlers
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
