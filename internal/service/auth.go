package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const AuthCookieName = "auth_token"

type AuthService struct {
	userRepository           repository.UserRepository
	profileRepository        repository.ProfileRepository
	tokenRepository          repository.TokenRepository
	layoutRepository         repository.LayoutRepository
	emailService             *EmailService
	jwtSecret                string
	isProduction             bool
	jwtExpiry                time.Duration
	tokenPasswordResetExpiry time.Duration
	bcryptCost               int
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	tokenRepository repository.TokenRepository,
	layoutRepository repository.LayoutRepository,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	tokenPasswordResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		profileRepository:        profileRepository,
		tokenRepository:          tokenRepository,
		layoutRepository:         layoutRepository,
		emailService:             emailService,
		jwtSecret:                jwtSecret,
		isProduction:             isProduction,
		jwtExpiry:                jwtExpiry,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
		bcryptCost:               bcrypt.DefaultCost,
	}
}

// WithBcryptCost lowers the hashing cost, for tests.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// Register creates the user with role user, an empty profile and the default
// dashboard layout, then sends a welcome email.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = validation.NormalizeEmail(email)
	err := validation.First(
		validation.Field("email", validation.ValidateEmail(email)),
		validation.Field("password", validation.ValidatePassword(password)),
		validation.Field("name", validation.ValidateName(name)),
	)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	profile := &model.Profile{
		Name:       strings.TrimSpace(name),
		UnitSystem: model.UnitSystemMetric,
		CreatedAt:  now,
	}
	err = s.userRepository.Create(user, profile)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.layoutRepository.Save(user.ID, model.DefaultLayout(user.ID)); err != nil {
		slog.Warn("failed to store default dashboard layout", "error", err, "user_id", user.ID)
	}

	if err := s.emailService.SendWelcomeEmail(ctx, user.Email, profile.Name); err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login answers unknown email and wrong password with the same error.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.ComparePassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateToken returns 32 random bytes, hex encoded.
func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateJWT signs a session token and returns it with its expiry.
func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// Authenticate resolves a session token to the current user record, so role
// changes and deletions take effect before the token expires.
func (s *AuthService) Authenticate(tokenString string) (*model.User, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// ForgotPassword replaces any open reset token of the user and mails a new
// link. Unknown addresses succeed silently to prevent enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		slog.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypePasswordReset)
	if err != nil {
		slog.Warn("failed to delete old reset tokens", "error", err, "user_id", user.ID)
	}

	resetToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(s.tokenPasswordResetExpiry),
	}
	if err := s.tokenRepository.Create(token); err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	name := ""
	if profile, err := s.profileRepository.ByUserID(user.ID); err == nil {
		name = profile.Name
	}

	err = s.emailService.SendPasswordResetEmail(ctx, user.Email, resetToken, name, s.tokenPasswordResetExpiry)
	if err != nil {
		slog.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(token, password string) error {
	if err := validation.Field("password", validation.ValidatePassword(password)); err != nil {
		return err
	}

	t, err := s.tokenRepository.ConsumeToken(token)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("failed to consume token: %w", err)
	}
	if t.Type != model.TokenTypePasswordReset {
		return ErrInvalidToken
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepository.UpdatePassword(t.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset", "user_id", t.UserID)
	return nil
}
