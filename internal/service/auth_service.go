package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Baaaki/backyard-marquee/internal/models"
	"github.com/Baaaki/backyard-marquee/internal/repository"
	"github.com/Baaaki/backyard-marquee/internal/security"
	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"go.uber.org/zap"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 20
	minPasswordLen = 6

	msgUsernameTaken      = "Username already taken"
	msgEmailTaken         = "Email already registered"
	msgInvalidCredentials = "Invalid username or password"

	dummyPassword = "backyard-marquee-unknown-user"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type AuthService struct {
	userRepo *repository.UserRepository
	hasher   *security.PasswordHasher
	tokens   *security.TokenManager

	// dummyHash is verified against for unknown usernames so both login failures cost the same
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(userRepo *repository.UserRepository, hasher *security.PasswordHasher, tokens *security.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Register creates an account. email may be empty.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*AuthResult, error) {
	start := time.Now()
	email = strings.TrimSpace(email)

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
	)

	if err := validateRegisterInput(username, password, email); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	existing, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		return nil, conflictError(msgUsernameTaken)
	}

	if email != "" {
		existing, err = s.userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			logger.Log.Error("Failed to check email existence",
				zap.Error(err),
			)
			return nil, err
		}
		if existing != nil {
			return nil, conflictError(msgEmailTaken)
		}
	}

	hashStart := time.Now()
	hash, err := s.hasher.Hash(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}
	hashDuration := time.Since(hashStart)

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if email != "" {
		user.Email = &email
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Lost a race against a concurrent registration
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			if dup.Field == "email" {
				return nil, conflictError(msgEmailTaken)
			}
			return nil, conflictError(msgUsernameTaken)
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
		zap.Duration("hash_duration", hashDuration),
		zap.Duration("total_duration", time.Since(start)),
	)
	return result, nil
}

// Login answers unknown users and wrong passwords with the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	start := time.Now()

	if username == "" || password == "" {
		return nil, validationError("Username and password required")
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Log.Error("Failed to get user by username",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("username", username),
		)
		s.verifyDummy(password)
		return nil, newError(ErrUnauthorized, msgInvalidCredentials)
	}

	verifyStart := time.Now()
	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID.String()),
		)
		return nil, newError(ErrUnauthorized, msgInvalidCredentials)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Duration("password_verify_duration", time.Since(verifyStart)),
		zap.Duration("total_duration", time.Since(start)),
	)
	return result, nil
}

// verifyDummy burns one argon2id verification. The result is ignored.
func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			logger.Log.Error("Failed to prepare dummy hash", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(password, s.dummyHash)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

func validateRegisterInput(username, password, email string) error {
	if username == "" || password == "" {
		return validationError("Username and password required")
	}
	if len(username) < minUsernameLen {
		return validationError("Username must be at least 3 characters")
	}
	if len(username) > maxUsernameLen {
		return validationError("Username must be 20 characters or less")
	}
	if !usernameRegex.MatchString(username) {
		return validationError("Username can only contain letters, numbers, and underscores")
	}
	if len(password) < minPasswordLen {
		return validationError("Password must be at least 6 characters")
	}
	if email != "" && !emailRegex.MatchString(email) {
		return validationError("Invalid email format")
	}
	return nil
}
