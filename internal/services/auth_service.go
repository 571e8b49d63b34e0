package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GabeHenrique/ong-connect-api/internal/auth"
	"github.com/GabeHenrique/ong-connect-api/internal/constants"
	"github.com/GabeHenrique/ong-connect-api/internal/mail"
	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/GabeHenrique/ong-connect-api/internal/repository"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrPasswordTooShort      = errors.New("password too short")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidResetToken     = errors.New("invalid or expired token")
	ErrFailedToHashPassword  = errors.New("failed to hash password")
	ErrFailedToCreateUser    = errors.New("failed to create user")
	ErrFailedToIssueToken    = errors.New("failed to issue token")
	ErrFailedToSendResetMail = errors.New("failed to send password reset email")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo    repository.UserRepository
	tokens      *auth.TokenManager
	mailer      mail.Mailer
	frontendURL string
	validate    *validator.Validate
	log         *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, mailer mail.Mailer, frontendURL string, log *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		validate:    newValidator(),
		log:         log,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required"`
	ConfirmPassword string          `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Name            string          `json:"name" validate:"required,max=255"`
	Role            models.UserRole `json:"role" validate:"required,oneof=ONG VOLUNTEER"`
}

// Register creates a new user. The confirmation password is only checked,
// never stored.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	user.PasswordHash = ""
	return user, nil
}

// ValidateUser returns the user without its password hash when the
// credentials match, and nil otherwise. It never fails.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) *models.User {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("failed to look up user during login", "error", err)
		}
		return nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil
	}

	user.PasswordHash = ""
	return user
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	AccessToken string
	User        *models.User
}

// Login issues an access token for an already validated user.
func (s *AuthService) Login(user *models.User) (*LoginResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToIssueToken, err)
	}

	return &LoginResult{
		AccessToken: token,
		User:        user,
	}, nil
}

// Authenticate validates the credentials and logs the user in.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	user := s.ValidateUser(ctx, email, password)
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return s.Login(user)
}

// ForgotPassword stores a fresh reset token on the user and mails the reset
// link. A new request replaces any pending token.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := s.tokens.IssueReset(user.ID, user.Email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToIssueToken, err)
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, token); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if err := s.mailer.Send(ctx, mail.PasswordResetMessage(user.Email, link)); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendResetMail, err)
	}

	return nil
}

// ResetPassword consumes a reset token. Every token problem surfaces as
// ErrInvalidResetToken.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	claims, err := s.tokens.ParseReset(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.Email != claims.Email || user.ResetPasswordToken == nil ||
		subtle.ConstantTimeCompare([]byte(*user.ResetPasswordToken), []byte(token)) != 1 {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.userRepo.ConsumeResetToken(ctx, user.ID, token, string(hashedPassword)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
