package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/homefix/maintenance-service/internal/models"
	"github.com/homefix/maintenance-service/internal/repository"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// mockPassword - единый пароль для всех имитационных учётных записей.
const mockPassword = "password"

type AuthService struct {
	Users      repository.UserRepository
	Sessions   repository.SessionRepository
	signingKey []byte
	tokenTTL   time.Duration
}

// NewAuthService создаёт новый экземпляр AuthService.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, signingKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		Users:      users,
		Sessions:   sessions,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// SignIn проверяет учётные данные и роль портала, выдаёт access-токен
// и сохраняет запись пользователя в слот сессии.
func (s *AuthService) SignIn(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: email, password or role")
	}

	user, err := s.Users.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to check user existence")
	}
	if user == nil || user.Role != req.Role || req.Password != mockPassword {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "invalid credentials or role")
	}

	return s.issueToken(ctx, *user)
}

// SignUp регистрирует нового пользователя и сразу выполняет вход.
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: email, password or name")
	}
	if !models.AllowedRoles[req.Role] {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid role. Must be 'renter', 'landlord' or 'admin'")
	}

	newUser := models.User{
		ID:    uuid.New().String(),
		Email: strings.ToLower(req.Email),
		Name:  req.Name,
		Role:  req.Role,
	}
	if err := s.Users.Create(ctx, newUser); err != nil {
		return nil, err
	}

	return s.issueToken(ctx, newUser)
}

// Logout удаляет сессию по токену.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing access token")
	}
	return s.Sessions.Delete(ctx, token)
}

// Authenticate разбирает access-токен, проверяет подпись и наличие живой сессии.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.NewErrorResponse(http.StatusUnauthorized, "unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "invalid or expired token")
	}

	user, err := s.Sessions.Get(ctx, tokenString)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to check session")
	}
	if user == nil {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "session not found")
	}
	return user, nil
}

func (s *AuthService) issueToken(ctx context.Context, user models.User) (*models.AuthResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	accessToken, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to sign access token")
	}

	if err := s.Sessions.Save(ctx, accessToken, user, s.tokenTTL); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to save session")
	}

	return &models.AuthResponse{AccessToken: accessToken, User: user}, nil
}
