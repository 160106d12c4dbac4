package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// TokenClaims is the identity carried by a login token
type TokenClaims struct {
	UserID      uint
	Email       string
	AccountType string
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken creates a signed JWT for the given identity
func GenerateToken(claims TokenClaims, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":          claims.UserID,
		"email":       claims.Email,
		"accountType": claims.AccountType,
		"exp":         time.Now().Add(JWTExpiration).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ValidateToken parses a JWT and returns the identity it carries
func ValidateToken(tokenString, secret string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, ok := claims["id"].(float64)
	if !ok {
		return nil, errors.New("invalid user ID in token")
	}
	email, _ := claims["email"].(string)
	accountType, _ := claims["accountType"].(string)

	return &TokenClaims{
		UserID:      uint(userID),
		Email:       email,
		AccountType: accountType,
	}, nil
}

// GenerateOTP creates a 6-digit numeric OTP
func GenerateOTP() (string, error) {
	otp := make([]byte, 6)
	for i := range otp {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		otp[i] = byte('0' + n.Int64())
	}
	return string(otp), nil
}
