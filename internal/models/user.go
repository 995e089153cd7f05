package models

import "github.com/golang-jwt/jwt"

type UserRole string // Роль пользователя в системе

const (
	RenterRole   UserRole = "renter"   // Арендатор
	LandlordRole UserRole = "landlord" // Арендодатель
	AdminRole    UserRole = "admin"    // Исполнитель (сервисная служба)
)

// AllowedRoles - множество допустимых ролей.
var AllowedRoles = map[UserRole]bool{
	RenterRole:   true,
	LandlordRole: true,
	AdminRole:    true,
}

// User представляет модель пользователя.
type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

// Claims - полезная нагрузка access-токена.
type Claims struct {
	UserID string   `json:"userId"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
	jwt.StandardClaims
}

// LoginRequest представляет структуру запроса для входа.
type LoginRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

// SignUpRequest представляет структуру запроса для регистрации.
type SignUpRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

// AuthResponse - ответ на успешный вход: токен и данные пользователя.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}
