package Whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"AcuCare/Constants"

	"github.com/gin-gonic/gin"
	whatsapp_chatbot_golang "github.com/green-api/whatsapp-chatbot-golang"
)

func gatewayURL() string {
	if url := os.Getenv("WHATSAPP_GATEWAY_URL"); url != "" {
		return url
	}
	return Constants.WhatsappGoService
}

// Listen starts the inbound WhatsApp bot. Credentials come from the
// environment; without them the listener stays off.
func Listen() {
	instanceID := os.Getenv("GREEN_API_INSTANCE_ID")
	apiToken := os.Getenv("GREEN_API_TOKEN")
	if instanceID == "" || apiToken == "" {
		log.Println("GREEN_API credentials not set, WhatsApp listener disabled")
		return
	}

	bot := whatsapp_chatbot_golang.NewBot(instanceID, apiToken)
	bot.SetStartScene(StartScene{})
	bot.StartReceivingNotifications()
}

type StartScene struct {
}

func (s StartScene) Start(bot *whatsapp_chatbot_golang.Bot) {
	bot.IncomingMessageHandler(func(message *whatsapp_chatbot_golang.Notification) {
		text, _ := message.Text()
		log.Println("whatsapp inbound:", text)
	})
}

// CheckLogin asks the local WhatsApp gateway whether a device is paired.
func CheckLogin(c *gin.Context) {
	res, err := http.Get(gatewayURL() + "/app/devices")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp gateway unreachable"})
		return
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp gateway unreachable"})
		return
	}

	var output struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Results []struct {
			Name   string `json:"name"`
			Device string `json:"device"`
		}
	}
	if err = json.Unmarshal(body, &output); err != nil {
		log.Println(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Bad gateway response"})
		return
	}

	if len(output.Results) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Not Logged In"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged In"})
}

// GetQRCode fetches the pairing QR image from the gateway.
func GetQRCode(c *gin.Context) {
	res, err := http.Get(gatewayURL() + "/app/login")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp gateway unreachable"})
		return
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp gateway unreachable"})
		return
	}

	var output struct {
		Results struct {
			QRLink string `json:"qr_link"`
		} `json:"results"`
	}
	if err = json.Unmarshal(body, &output); err != nil {
		log.Println(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Bad gateway response"})
		return
	}

	imgRes, err := http.Get(output.Results.QRLink)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp gateway unreachable"})
		return
	}
	defer imgRes.Body.Close()

	img, err := io.ReadAll(imgRes.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp gateway unreachable"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=qr.png")
	c.Data(http.StatusOK, "application/octet-stream", img)
}

// SendMessage pushes one outbound message through the gateway. Callers treat
// it as best-effort and never fail their own operation on an error here.
func SendMessage(phone, message string) error {
	payload, err := json.Marshal(map[string]string{"phone": phone, "message": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, gatewayURL()+"/send/message", bytes.NewBuffer(payload))
	if err != nil {
		log.Println(err)
		return err
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Println(err)
		return err
	}
	defer res.Body.Close()

	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		return err
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("whatsapp gateway returned %d", res.StatusCode)
	}
	return nil
}
