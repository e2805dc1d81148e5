package services_test

import (
	"fmt"
	"testing"
	"time"

	"horologe/internal/apperrors"
	"horologe/internal/models"
	"horologe/internal/repositories"
	"horologe/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(users *MockUserRepository, orders *MockOrderRepository) *services.AuthService {
	gw := &stubGateway{tx: repositories.Tx{Users: users, Orders: orders}}
	return services.NewAuthService(users, gw, nil, testJWTSecret)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	input := services.RegisterInput{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", input.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", input.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser(input)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.NotEqual(t, "password123", user.Password, "stored credential must be hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", input.Username).Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser(input)
	assert.ErrorIs(t, err, apperrors.ErrConstraint)
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", input.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", input.Email).Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser(input)
	assert.ErrorIs(t, err, apperrors.ErrConstraint)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	cases := []struct {
		name  string
		input services.RegisterInput
		field string
	}{
		{"short password", services.RegisterInput{Username: "abc", Email: "a@b.com", Password: "short"}, "Password"},
		{"bad email", services.RegisterInput{Username: "abc", Email: "not-an-email", Password: "secret1"}, "Email"},
		{"missing username", services.RegisterInput{Email: "a@b.com", Password: "secret1"}, "Username"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := authService.RegisterUser(tc.input)
			var verr *apperrors.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	token, err := authService.LoginUser("testuser", "password123")
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
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser("testuser", "wrongpassword")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown user yields the same error as a wrong password
	mockRepo.On("GetByUsername", "nonexistentuser").
		Return(nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)).Once()
	_, err = authService.LoginUser("nonexistentuser", "password123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
}

func TestAuthService_DeleteUser(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockOrders := new(MockOrderRepository)
	authService := newAuthService(mockUsers, mockOrders)

	mockOrders.On("DeleteByUser", "user-1").Return(nil).Once()
	mockUsers.On("Delete", "user-1").Return(nil).Once()

	assert.NoError(t, authService.DeleteUser("user-1"))
	mockUsers.AssertExpectations(t)
	mockOrders.AssertExpectations(t)

	// Missing user surfaces as not found; orders are still swept first.
	mockOrders.On("DeleteByUser", "missing").Return(nil).Once()
	mockUsers.On("Delete", "missing").
		Return(fmt.Errorf("user missing: %w", apperrors.ErrNotFound)).Once()
	assert.ErrorIs(t, authService.DeleteUser("missing"), apperrors.ErrNotFound)
}
