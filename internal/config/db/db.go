package db

import (
	"fmt"
	"log"

	"github.com/linskybing/pinta-go/internal/config"
	"github.com/linskybing/pinta-go/internal/domain/image"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/linskybing/pinta-go/internal/domain/user"
	"github.com/linskybing/pinta-go/internal/domain/volume"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DbHost,
		config.DbPort,
		config.DbUser,
		config.DbPassword,
		config.DbName,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to auto migrate:", err)
	}

	log.Println("Database connected and migrated")
}

// Migrate creates or updates the tables for every persisted record.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&user.User{}, &volume.Volume{}, &image.Image{}, &job.Job{})
}

func InitWithGormDB(gormDB *gorm.DB) {
	DB = gormDB
}
