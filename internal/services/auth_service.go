package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"horologe/internal/apperrors"
	"horologe/internal/models"
	"horologe/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles accounts: registration, credential verification,
// token issuance and user administration.
type AuthService struct {
	userRepo   repositories.UserRepository
	gateway    repositories.Gateway
	events     EventPublisher
	validate   *validator.Validate
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	gateway repositories.Gateway,
	events EventPublisher,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		gateway:    gateway,
		events:     events,
		validate:   validator.New(),
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterInput carries the fields for a new account. Shipping fields
// are optional and default to empty.
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZip     string `json:"shipping_zip"`
}

// RegisterUser validates the input, hashes the password and creates the
// user. A taken username or email surfaces as a constraint violation;
// the database uniqueness constraints back the pre-checks up against
// concurrent registrations.
func (s *AuthService) RegisterUser(input RegisterInput) (*models.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, toValidationError(err)
	}

	if existing, err := s.userRepo.GetByUsername(input.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username '%s' already exists", apperrors.ErrConstraint, input.Username)
	}
	if existing, err := s.userRepo.GetByEmail(input.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email '%s' already exists", apperrors.ErrConstraint, input.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:        input.Username,
		Email:           input.Email,
		Password:        string(hashedPassword),
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingZip:     input.ShippingZip,
	}

	err = s.gateway.Commit(func(tx repositories.Tx) error {
		return tx.Users.Create(user)
	})
	if err != nil {
		return nil, err
	}

	s.publish("user.registered", map[string]string{"id": user.ID, "username": user.Username})
	return user, nil
}

// LoginUser verifies the credentials and returns a signed JWT. Unknown
// usernames and wrong passwords produce the same error.
func (s *AuthService) LoginUser(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ListUsers retrieves all users. Password hashes never leave the JSON
// encoder thanks to the model's "-" tag.
func (s *AuthService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// DeleteUser removes a user and cascades to their orders and order
// details in one transaction.
func (s *AuthService) DeleteUser(id string) error {
	return s.gateway.Commit(func(tx repositories.Tx) error {
		if err := tx.Orders.DeleteByUser(id); err != nil {
			return err
		}
		return tx.Users.Delete(id)
	})
}

func (s *AuthService) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
