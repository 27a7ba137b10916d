package Token

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

// Identity is what a verified bearer token carries.
type Identity struct {
	UserID uint   `json:"user_id"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
}

// Maker signs and verifies bearer tokens. It is constructed once at process
// start and handed to whoever needs it, there is no package-level secret.
type Maker struct {
	secret   []byte
	lifespan time.Duration
}

func NewMaker(secret string, lifespan time.Duration) *Maker {
	return &Maker{secret: []byte(secret), lifespan: lifespan}
}

// NewMakerFromEnv reads API_SECRET and TOKEN_HOUR_LIFESPAN.
func NewMakerFromEnv() (*Maker, error) {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return nil, errors.New("API_SECRET not set")
	}
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		hours = 24
	}
	return NewMaker(secret, time.Duration(hours)*time.Hour), nil
}

func (maker *Maker) Generate(identity Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   float64(identity.UserID),
		"phone": identity.Phone,
		"role":  identity.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(maker.lifespan).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(maker.secret)
}

// Verify checks signature and expiry and returns the embedded identity.
// It never touches the database.
func (maker *Maker) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return maker.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	phone, _ := claims["phone"].(string)
	role, ok := claims["role"].(string)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: uint(sub), Phone: phone, Role: role}, nil
}

// ExtractJWT pulls the bearer credential out of a request, checking the
// Authorization header first and falling back to a query parameter.
func ExtractJWT(c *gin.Context) string {
	bearerToken := c.Request.Header.Get("Authorization")
	if len(strings.Split(bearerToken, " ")) == 2 {
		return strings.Split(bearerToken, " ")[1]
	}
	return c.Query("token")
}
