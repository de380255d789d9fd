package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"mathlearn-service/internal/models"
	"mathlearn-service/internal/repository"
)

// UserService covers the admin screens: account and student record CRUD.
type UserService struct {
	Users    *repository.UserRepository
	Students *repository.StudentRepository
}

func NewUserService(users *repository.UserRepository, students *repository.StudentRepository) *UserService {
	return &UserService{Users: users, Students: students}
}

// CreateUser hashes the password and, for student accounts, creates the
// linked student record that responses and assignments reference.
func (s *UserService) CreateUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	switch role {
	case models.RoleAdmin, models.RoleTeacher, models.RoleStudent:
	default:
		return nil, fmt.Errorf("invalid role %q", role)
	}

	if _, err := s.Users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if role == models.RoleStudent {
		student := &models.Student{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Name:      name,
			CreatedAt: time.Now(),
		}
		if err := s.Students.Create(ctx, student); err != nil {
			return nil, fmt.Errorf("create student record: %w", err)
		}
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Users.FindAll(ctx)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleStudent {
		if student, err := s.Students.FindByUserID(ctx, id); err == nil {
			if err := s.Students.Delete(ctx, student.ID); err != nil {
				return fmt.Errorf("delete student record: %w", err)
			}
		}
	}
	return s.Users.Delete(ctx, id)
}

func (s *UserService) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.Students.FindAll(ctx)
}

// StudentForUser resolves the student record behind a logged-in account.
func (s *UserService) StudentForUser(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.Students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}
