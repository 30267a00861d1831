package dbhelper

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"makeoverapi/config"
)

func SetupDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(300)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)

	if err := Migrate(db, tables...); err != nil {
		log.Fatal(err)
	}

	log.Println("Database ready")
	return db
}

func SetupTestDB() *gorm.DB {
	os.Setenv("DB_USERNAME", "makeover")
	os.Setenv("DB_PASSWORD", "makeover")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_NAME", "makeover_test")
	os.Setenv("DB_PORT", "5432")
	os.Setenv("JWT_SECRET", "test-secret")
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	return SetupDB(cfg)
}
