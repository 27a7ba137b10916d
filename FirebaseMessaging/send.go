package FirebaseMessaging

import (
	"context"
	"log"
	"os"
	"time"

	"AcuCare/Models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

var (
	app             *firebase.App
	messagingClient *messaging.Client
)

// Setup initializes the messaging client. Push stays disabled when no
// credentials are available, the rest of the app works without it.
func Setup() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")

	ctx := context.Background()
	var err error

	if serviceAccountPath != "" {
		opt := option.WithCredentialsFile(serviceAccountPath)
		app, err = firebase.NewApp(ctx, nil, opt)
	} else {
		// Application default credentials
		app, err = firebase.NewApp(ctx, nil)
	}
	if err != nil {
		log.Printf("Firebase app not initialized, push disabled: %v", err)
		return
	}

	messagingClient, err = app.Messaging(ctx)
	if err != nil {
		log.Printf("Firebase messaging not initialized, push disabled: %v", err)
	}
}

// SendMessage pushes a notification to one or more staff devices. Errors
// are logged and returned, never escalated by callers.
func SendMessage(req Models.NotificationRequest) error {
	if messagingClient == nil {
		log.Println("firebase messaging not configured, dropping notification")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: req.Title,
			Body:  req.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:    "default",
				Priority: messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: req.Title,
						Body:  req.Body,
					},
					Sound: "default",
				},
			},
		},
	}

	switch {
	case len(req.Tokens) == 1:
		message.Token = req.Tokens[0]
		if _, err := messagingClient.Send(ctx, message); err != nil {
			log.Printf("Error sending message: %v", err)
			return err
		}
	case len(req.Tokens) > 1:
		_, err := messagingClient.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       req.Tokens,
			Notification: message.Notification,
			Android:      message.Android,
			APNS:         message.APNS,
		})
		if err != nil {
			log.Printf("Error sending multicast message: %v", err)
			return err
		}
	}
	return nil
}
