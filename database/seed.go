package database

import (
	"fmt"
	"log"
	"time"

	"github.com/mbacke/orienta-api/config"
	"github.com/mbacke/orienta-api/model"
	"github.com/mbacke/orienta-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedChatbotSystem(); err != nil {
		return fmt.Errorf("failed to seed chatbot system: %w", err)
	}

	if err := s.SeedCatalogue(); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	if err := s.SeedFAQ(); err != nil {
		return fmt.Errorf("failed to seed FAQ: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD.
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin account already exists, skipping...")
		return nil
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}
	if getEnv.ADMIN_EMAIL == "" || getEnv.ADMIN_PASSWORD == "" {
		log.Println("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping admin account creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(getEnv.ADMIN_PASSWORD)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        getEnv.ADMIN_EMAIL,
		PasswordHash: passwordHash,
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         model.RoleAdmin,
		Status:       model.StatusActive,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin account: %s\n", admin.Email)
	return nil
}

// SeedChatbotSystem registers the chatbot that answers visitor questions
func (s *Seeder) SeedChatbotSystem() error {
	var count int64
	if err := s.db.Model(&model.ChatbotSystem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	bot := &model.ChatbotSystem{Version: "1.0.0"}
	if err := s.db.Create(bot).Error; err != nil {
		return err
	}

	log.Printf("Created chatbot system %d (v%s)\n", bot.ID, bot.Version)
	return nil
}

// SeedCatalogue creates the initial consultable content
func (s *Seeder) SeedCatalogue() error {
	var count int64
	if err := s.db.Model(&model.CatalogueEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	entries := []model.CatalogueEntry{
		{
			Description: "Software Engineering track",
			Body:        "The software engineering track covers programming, software design, databases and project management over three years.",
		},
		{
			Description: "Systems and Networks track",
			Body:        "The systems and networks track covers system administration, network architecture and security fundamentals.",
		},
		{
			Description: "Tuition and enrollment",
			Body:        "Enrollment is open from July to October. Tuition can be paid per semester; payment records are available on request.",
		},
	}

	if err := s.db.Create(&entries).Error; err != nil {
		return err
	}

	log.Printf("Created %d catalogue entries\n", len(entries))
	return nil
}

// SeedFAQ creates the initial FAQ entries
func (s *Seeder) SeedFAQ() error {
	var count int64
	if err := s.db.Model(&model.FAQEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	entries := []model.FAQEntry{
		{
			Question:    "How do I create an account?",
			Answer:      "Use the registration form with your name, email, a password and the track you are interested in.",
			PublishedAt: now,
		},
		{
			Question:    "What is the orientation test?",
			Answer:      "A short questionnaire that suggests a study track matching your profile. Your answers are kept in your student record.",
			PublishedAt: now,
		},
		{
			Question:    "Who can see my payment history?",
			Answer:      "Only you and the administration. Payment records are never modified after they are recorded.",
			PublishedAt: now,
		},
	}

	if err := s.db.Create(&entries).Error; err != nil {
		return err
	}

	log.Printf("Created %d FAQ entries\n", len(entries))
	return nil
}
