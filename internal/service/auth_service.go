package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"mathlearn-service/internal/models"
	"mathlearn-service/internal/repository"
)

// Mailer delivers password-reset tokens. Email transport is an external
// collaborator; a nil mailer logs the token instead.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users    *repository.UserRepository
	Resets   *repository.ResetRepository
	mailer   Mailer
	secret   []byte
	resetTTL time.Duration
}

func NewAuthService(users *repository.UserRepository, resets *repository.ResetRepository, mailer Mailer, secret string, resetTTL time.Duration) *AuthService {
	return &AuthService{
		Users:    users,
		Resets:   resets,
		mailer:   mailer,
		secret:   []byte(secret),
		resetTTL: resetTTL,
	}
}

// Login verifies the password and issues a signed token carrying the
// user's id and role.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is required")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// RequestPasswordReset issues a one-shot token and hands it to the mailer.
// An unknown email is not reported back to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Printf("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	reset := &models.PasswordReset{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
		CreatedAt: time.Now(),
	}
	if err := s.Resets.Create(ctx, reset); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	if s.mailer == nil {
		log.Printf("No mailer configured, reset token for user %s not delivered", user.ID)
		return nil
	}
	return s.mailer.SendPasswordReset(ctx, user.Email, reset.Token)
}

// ConfirmPasswordReset burns the token and stores the new password hash.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	reset, err := s.Resets.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("load reset token: %w", err)
	}
	if reset.Used || time.Now().After(reset.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.Update(ctx, reset.UserID, bson.M{"password_hash": string(hash)}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return s.Resets.MarkUsed(ctx, token)
}
