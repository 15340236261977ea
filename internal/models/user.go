package models

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Surname      string     `json:"surname"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Password     string     `json:"password,omitempty"`
	Role         string     `json:"role"`
	AvatarPath   *string    `json:"avatar_path,omitempty"`
	FCMToken     *string    `json:"fcm_token,omitempty"`
	ReviewRating float64    `json:"review_rating"`
	ReviewsCount int        `json:"reviews_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type Session struct {
	UserID       int       `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	Role         string    `json:"role"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type SignInResponse struct {
	UserID       int    `json:"user_id"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
