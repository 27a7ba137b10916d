package Models

import (
	"errors"
	"html"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RolePatient  = "PATIENT"
	RoleProvider = "PROVIDER"
	RoleAdmin    = "ADMIN"
)

const (
	UserActive   = "ACTIVE"
	UserInactive = "INACTIVE"
)

type User struct {
	gorm.Model
	Name     string        `gorm:"size:255" json:"name"`
	Phone    string        `gorm:"size:20;not null;unique" json:"phone"`
	Password string        `gorm:"size:255" json:"-"`
	Role     string        `gorm:"size:20;not null;default:PATIENT" json:"role"`
	Status   string        `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	Tokens   []DeviceToken `gorm:"foreignKey:UserID" json:"-"`
}

type DeviceToken struct {
	gorm.Model
	UserID uint
	Value  string `json:"value" gorm:"unique"`
}

func (user *User) IsActive() bool {
	return user.Status == UserActive
}

func GetUserByID(uid uint) (User, error) {
	var user User
	if err := DB.First(&user, uid).Error; err != nil {
		return user, errors.New("User not found")
	}
	return user, nil
}

func GetUserByPhone(phone string) (User, error) {
	var user User
	if err := DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func GetFCMsByID(uid uint) ([]string, error) {
	var fcms []string
	if err := DB.Model(&DeviceToken{}).Where("user_id = ?", uid).Select("value").Find(&fcms).Error; err != nil {
		return []string{}, errors.New("No FCMS found")
	}
	return fcms, nil
}

// GetStaffFCMs collects the device tokens of every admin user, deduplicated,
// for dashboard push fan-out.
func GetStaffFCMs() ([]string, error) {
	var users []User
	if err := DB.Where("role = ?", RoleAdmin).Find(&users).Error; err != nil {
		return nil, err
	}

	uniqueFCMs := make(map[string]struct{})
	for _, staff := range users {
		var tokens []DeviceToken
		if err := DB.Where("user_id = ?", staff.ID).Find(&tokens).Error; err != nil {
			continue
		}
		for _, token := range tokens {
			uniqueFCMs[token.Value] = struct{}{}
		}
	}

	fcms := make([]string, 0, len(uniqueFCMs))
	for token := range uniqueFCMs {
		fcms = append(fcms, token)
	}
	return fcms, nil
}

func VerifyPassword(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func LoginCheck(phone string, password string) (User, error) {
	var user User

	if err := DB.Model(User{}).Where("phone = ?", phone).Take(&user).Error; err != nil {
		return user, err
	}

	if err := VerifyPassword(password, user.Password); err != nil {
		return user, err
	}

	return user, nil
}

func (user *User) SaveUser() (*User, error) {

	if err := user.BeforeSave(); err != nil {
		return &User{}, err
	}

	if err := DB.Create(&user).Error; err != nil {
		return &User{}, err
	}

	return user, nil
}

func (user *User) BeforeSave() error {

	// staff accounts carry a password, patients authenticate with OTP only
	if user.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.Password = string(hashedPassword)
	}

	user.Name = html.EscapeString(strings.TrimSpace(user.Name))

	return nil
}
