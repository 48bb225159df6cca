package services

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"socialite/internal/models"
	"socialite/internal/repositories"
	"socialite/pkg/apperrors"
)

// AccountService handles business logic for identity: signup, login, profile
// retrieval and password changes. It also issues and verifies the bearer
// tokens the auth middleware consumes.
type AccountService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repositories.UserRepository, jwtSecret string) *AccountService {
	return &AccountService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Hour, // Token valid for 1 hour
	}
}

// Signup registers a new user with a hashed password and zero followers.
// A duplicate username fails the store write and surfaces as the generic
// creation failure; no distinct conflict status is produced.
func (s *AccountService) Signup(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "Error creating user", err)
	}

	user := &models.User{
		Username:       username,
		PasswordHash:   string(hash),
		FollowersCount: 0,
	}
	if err := s.userRepo.Create(user); err != nil {
		log.Printf("Error creating user %s: %v", username, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error creating user", err)
	}
	return nil
}

// Login authenticates a user and returns a signed JWT if successful. An
// unknown username and a wrong password collapse to the same outcome so the
// response does not reveal which one occurred.
func (s *AccountService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"jti":      uuid.New().String(),
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		log.Printf("Error signing token for user %s: %v", username, err)
		return "", apperrors.Wrap(apperrors.CodeInternal, "Error logging in", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the identity it carries.
func (s *AccountService) ValidateToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeUnauthenticated, "Invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, apperrors.Unauthorized("Invalid or expired token")
	}

	id, _ := claims["user_id"].(float64)
	username, _ := claims["username"].(string)
	return Identity{ID: uint(id), Username: username}, nil
}

// Me returns the caller's own profile.
func (s *AccountService) Me(ident Identity) (*Profile, error) {
	if ident.ID == 0 {
		return nil, apperrors.ErrInvalidIdentity
	}
	return s.profileByID(ident.ID)
}

// GetUser returns the public profile of any user by id.
func (s *AccountService) GetUser(id uint) (*Profile, error) {
	return s.profileByID(id)
}

func (s *AccountService) profileByID(id uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		log.Printf("Error fetching user %d: %v", id, err)
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error fetching user", err)
	}
	return &Profile{
		Username:       user.Username,
		FollowersCount: user.FollowersCount,
	}, nil
}

// UpdatePassword replaces the caller's password with a newly hashed value.
// Previously issued tokens stay valid until they expire; there is no
// revocation list.
func (s *AccountService) UpdatePassword(ident Identity, newPassword string) error {
	if ident.ID == 0 {
		return apperrors.ErrInvalidIdentity
	}

	if _, err := s.userRepo.GetByID(ident.ID); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return apperrors.ErrUserNotFound
		}
		log.Printf("Error loading user %d for password update: %v", ident.ID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error updating password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "Error updating password", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ident.ID, string(hash)); err != nil {
		log.Printf("Error updating password for user %d: %v", ident.ID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error updating password", err)
	}
	return nil
}
