package main

import (
	"log"
	"os"

	"AcuCare/CronJobs"
	"AcuCare/FirebaseMessaging"
	"AcuCare/Models"
	"AcuCare/OTP"
	"AcuCare/Routes"
	"AcuCare/Utils/Token"
	"AcuCare/Whatsapp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	Models.ConnectDataBase()
	FirebaseMessaging.Setup()

	tokenMaker, err := Token.NewMakerFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	otpStore := OTP.NewStore()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://acucare.app", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))
	Routes.ConfigRoutes(router, tokenMaker, otpStore)

	reminderService := CronJobs.NewSessionReminder(Models.DB)
	reminderService.StartReminderCron()

	go Whatsapp.Listen()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3005"
	}
	router.Run(":" + port)
}
