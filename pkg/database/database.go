package database

import (
	"fmt"
	"log"

	"formapro_backend/internal/config"
	"formapro_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Formation{},
		&model.Module{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAnswer{},
		&model.Enrollment{},
		&model.ModuleProgress{},
		&model.QuizAttempt{},
		&model.Certificate{},
		&model.Badge{},
		&model.UserBadge{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedBadges(db)

	return db, nil
}

// Default badge catalog. The badge evaluator awards these by code.
func seedBadges(db *gorm.DB) {
	var count int64
	db.Model(&model.Badge{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Badge{
		{Code: "first_formation", Name: "Première formation", Description: "First formation completed", Icon: "badges/first_formation.svg"},
		{Code: "perfect_score", Name: "Sans faute", Description: "A quiz passed with a 100% score", Icon: "badges/perfect_score.svg"},
		{Code: "five_formations", Name: "Parcours confirmé", Description: "Five formations completed", Icon: "badges/five_formations.svg"},
	}
	for _, b := range defaults {
		db.Create(&b)
	}
}
