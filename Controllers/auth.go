package Controllers

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"AcuCare/Constants"
	"AcuCare/Middleware"
	"AcuCare/Models"
	"AcuCare/OTP"
	"AcuCare/Utils/Token"
	"AcuCare/Whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
)

var phoneRegex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone != "" && !strings.HasPrefix(phone, "+") {
		phone = Constants.DefaultCountryCode + phone
	}
	return phone
}

// SendOTP issues a one-time code for a registered phone number and delivers
// it over WhatsApp. In debug mode the code is logged instead of sent.
func SendOTP(store *OTP.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Phone string `json:"phone" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			abortWithError(c, errValidation("Phone number is required"))
			return
		}

		phone := normalizePhone(input.Phone)
		if !phoneRegex.MatchString(phone) {
			abortWithError(c, errValidation("Invalid phone number"))
			return
		}

		if _, err := Models.GetUserByPhone(phone); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWithError(c, errNotFound("No account registered with this phone number"))
				return
			}
			abortWithError(c, errInternal("Failed to look up account"))
			return
		}

		code := OTP.GenerateCode()
		store.Put(phone, code)

		if gin.Mode() == gin.ReleaseMode {
			if err := Whatsapp.SendMessage(phone, "Your AcuCare verification code is: "+code); err != nil {
				log.Println("failed to deliver OTP:", err)
			}
		} else {
			log.Printf("OTP for %s: %s", phone, code)
		}

		c.JSON(http.StatusOK, Models.ResponseMessage{Success: true, Message: "OTP sent"})
	}
}

// VerifyOTP exchanges a valid one-time code for a bearer token.
func VerifyOTP(store *OTP.Store, maker *Token.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Phone string `json:"phone" binding:"required"`
			OTP   string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			abortWithError(c, errValidation("Phone number and OTP are required"))
			return
		}

		phone := normalizePhone(input.Phone)
		if !store.Verify(phone, input.OTP) {
			abortWithError(c, errUnauthorized("Invalid or expired OTP"))
			return
		}

		user, err := Models.GetUserByPhone(phone)
		if err != nil {
			abortWithError(c, errUnauthorized("Invalid or expired OTP"))
			return
		}
		if !user.IsActive() {
			abortWithError(c, errForbidden("Account is inactive"))
			return
		}

		identity := Token.Identity{UserID: user.ID, Phone: user.Phone, Role: user.Role}
		tokenString, err := maker.Generate(identity)
		if err != nil {
			abortWithError(c, errInternal("Failed to issue token"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": tokenString, "identity": identity})
	}
}

type LoginInput struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates staff accounts by phone and password.
func Login(maker *Token.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			abortWithError(c, errValidation("Phone number and password are required"))
			return
		}

		user, err := Models.LoginCheck(normalizePhone(input.Phone), input.Password)
		if err != nil {
			abortWithError(c, errUnauthorized("Phone number or password is incorrect"))
			return
		}
		if !user.IsActive() {
			abortWithError(c, errForbidden("Account is inactive"))
			return
		}

		identity := Token.Identity{UserID: user.ID, Phone: user.Phone, Role: user.Role}
		tokenString, err := maker.Generate(identity)
		if err != nil {
			abortWithError(c, errInternal("Failed to issue token"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": tokenString, "identity": identity})
	}
}

type RegisterPatientInput struct {
	Name             string `json:"name" binding:"required"`
	Phone            string `json:"phone" binding:"required"`
	Gender           string `json:"gender"`
	Age              int    `json:"age"`
	InitialPainScore int    `json:"initial_pain_score"`
}

func RegisterPatient(c *gin.Context) {
	var input RegisterPatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	phone := normalizePhone(input.Phone)
	if !phoneRegex.MatchString(phone) {
		abortWithError(c, errValidation("Invalid phone number"))
		return
	}
	if input.InitialPainScore != 0 && !Models.ValidPainScore(input.InitialPainScore) {
		abortWithError(c, errValidation("Pain score must be between 1 and 10"))
		return
	}

	user := Models.User{Name: input.Name, Phone: phone, Role: Models.RolePatient}
	if _, err := user.SaveUser(); err != nil {
		abortWithError(c, errConflict("Phone number already registered"))
		return
	}

	patient := Models.Patient{
		UserID:           user.ID,
		Name:             user.Name,
		Phone:            phone,
		Gender:           input.Gender,
		Age:              input.Age,
		InitialPainScore: input.InitialPainScore,
		CurrentPainScore: input.InitialPainScore,
	}
	if err := Models.DB.Create(&patient).Error; err != nil {
		abortWithError(c, errInternal("Failed to create patient profile"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registered Successfully", "patient_id": patient.ID})
}

type RegisterProviderInput struct {
	Name           string   `json:"name" binding:"required"`
	Phone          string   `json:"phone" binding:"required"`
	Password       string   `json:"password" binding:"required"`
	CommissionRate *float64 `json:"commission_rate"`
}

// RegisterProvider creates a provider account in PENDING state. Admin only.
func RegisterProvider(c *gin.Context) {
	var input RegisterProviderInput
	if err := c.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	phone := normalizePhone(input.Phone)
	if !phoneRegex.MatchString(phone) {
		abortWithError(c, errValidation("Invalid phone number"))
		return
	}
	if input.CommissionRate != nil && (*input.CommissionRate < 0 || *input.CommissionRate > 1) {
		abortWithError(c, errValidation("Commission rate must be between 0 and 1"))
		return
	}

	user := Models.User{Name: input.Name, Phone: phone, Password: input.Password, Role: Models.RoleProvider}
	if _, err := user.SaveUser(); err != nil {
		abortWithError(c, errConflict("Phone number already registered"))
		return
	}

	provider := Models.Provider{
		UserID:         user.ID,
		Name:           user.Name,
		Phone:          phone,
		Status:         Models.ProviderPending,
		CommissionRate: input.CommissionRate,
	}
	if err := Models.DB.Create(&provider).Error; err != nil {
		abortWithError(c, errInternal("Failed to create provider profile"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registered Successfully", "provider_id": provider.ID})
}

func CurrentUser(c *gin.Context) {
	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	user, err := Models.GetUserByID(identity.UserID)
	if err != nil {
		abortWithError(c, errNotFound("User not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success", "data": gin.H{
		"ID":     user.ID,
		"name":   user.Name,
		"phone":  user.Phone,
		"role":   user.Role,
		"status": user.Status,
	}})
}

func SaveFCM(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation("Token is required"))
		return
	}

	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	deviceToken := Models.DeviceToken{UserID: identity.UserID, Value: input.Token}
	if err := Models.DB.Save(&deviceToken).Error; err != nil {
		abortWithError(c, errInternal("Failed to save device token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
