package Models

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDataBase() {

	err := godotenv.Load(".env")

	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	DbHost := os.Getenv("DB_HOST")
	DbUser := os.Getenv("DB_USER")
	DbPassword := os.Getenv("DB_PASSWORD")
	DbName := os.Getenv("DB_NAME")
	DbPort := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", DbHost, DbUser, DbPassword, DbName, DbPort)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		log.Fatal("connection error:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("migration error:", err)
	}
}

// Migrate runs AutoMigrate in dependency order. Split out from
// ConnectDataBase so tests can run the same schema on their own DB.
func Migrate(db *gorm.DB) error {
	// First migrate models with no dependencies
	if err := db.AutoMigrate(&Service{}, &DeviceToken{}); err != nil {
		return err
	}

	// Then migrate models that depend on the above
	if err := db.AutoMigrate(&User{}, &Patient{}, &Provider{}); err != nil {
		return err
	}

	// Finally migrate models that depend on multiple other models
	return db.AutoMigrate(&Package{}, &Booking{}, &PainScore{}, &Commission{})
}
