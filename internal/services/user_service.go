package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"drivaBack/internal/models"
	"drivaBack/internal/repositories"
	"drivaBack/utils"
)

const (
	accessTokenTTL  = 120 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type UserService struct {
	UserRepo     *repositories.UserRepository
	TokenManager *utils.Manager
	SigningKey   string
}

func (s *UserService) SignUp(ctx context.Context, user models.User) (models.User, error) {
	if user.Email == "" || user.Password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = "user"
	}
	user.CreatedAt = time.Now()
	return s.UserRepo.CreateUser(ctx, user)
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (models.SignInResponse, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.SignInResponse{}, models.ErrInvalidCredentials
		}
		return models.SignInResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}

	accessToken, err := s.newAccessToken(user.ID, user.Role)
	if err != nil {
		return models.SignInResponse{}, err
	}
	refreshToken, err := s.TokenManager.NewRefreshToken()
	if err != nil {
		return models.SignInResponse{}, err
	}

	session := models.Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		Role:         user.Role,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}
	if err := s.UserRepo.SaveSession(ctx, session); err != nil {
		return models.SignInResponse{}, err
	}

	return models.SignInResponse{
		UserID:       user.ID,
		Role:         user.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) newAccessToken(userID int, role string) (string, error) {
	claims := &models.Claims{
		UserID: uint(userID),
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(accessTokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.SigningKey))
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.UserRepo.GetUsers(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	return s.UserRepo.UpdateUser(ctx, user)
}

func (s *UserService) UpdateFCMToken(ctx context.Context, userID int, token string) error {
	return s.UserRepo.UpdateFCMToken(ctx, userID, token)
}

func (s *UserService) SignOut(ctx context.Context, userID int) error {
	return s.UserRepo.DeleteSession(ctx, userID)
}
