package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/services"
)

// TestMain is used to setup the test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       1,
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Active:   true,
		Roles:    []models.Role{{ID: 2, Name: "GERENTE_TIENDA"}},
	}

	// Successful login: the token carries identity and role claims.
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	token, err := authService.Login("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, float64(user.ID), claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, []interface{}{"GERENTE_TIENDA"}, claims["roles"])
	mockRepo.AssertExpectations(t)

	// Wrong password.
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.Login("testuser", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Unknown user answers with the same generic error.
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, fmt.Errorf("user with username nonexistentuser: %w", models.ErrNotFound)).Once()
	_, err = authService.Login("nonexistentuser", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// A deactivated account cannot log in, even with the right password.
	inactive := &models.User{
		ID:       2,
		Username: "dormant",
		Email:    "dormant@example.com",
		Password: string(hashedPassword),
		Active:   false,
	}
	mockRepo.On("GetByUsername", "dormant").Return(inactive, nil).Once()
	_, err = authService.Login("dormant", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  float64(1),
		"username": "testuser",
		"roles":    []string{"EMPLEADO_VENTAS"},
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "testuser", claims["username"])

	// Garbage token.
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Expired token.
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  float64(1),
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}
