package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/husainf4l/gixat/internal/config"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/middleware"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles organization sign-up, login, and token lifecycle.
type AuthService struct {
	db       *gorm.DB
	orgRepo  *repository.OrganizationRepository
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cache    *Cache
	logger   *zap.Logger
	cfg      *config.Config
}

func NewAuthService(db *gorm.DB, orgRepo *repository.OrganizationRepository, userRepo *repository.UserRepository, rdb *redis.Client, cache *Cache, logger *zap.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:       db,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		rdb:      rdb,
		cache:    cache,
		logger:   logger,
		cfg:      cfg,
	}
}

// TokenPair is the access/refresh token pair returned on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegisterOrganizationInput creates a new tenant with its first admin.
type RegisterOrganizationInput struct {
	OrganizationName   string `json:"organization_name" binding:"required"`
	RegistrationNumber string `json:"registration_number"`
	Address            string `json:"address"`
	OrgPhone           string `json:"org_phone"`
	OrgEmail           string `json:"org_email"`
	Currency           string `json:"currency"`
	Timezone           string `json:"timezone"`

	AdminEmail     string `json:"admin_email" binding:"required,email"`
	AdminPassword  string `json:"admin_password" binding:"required,min=8"`
	AdminFirstName string `json:"admin_first_name" binding:"required"`
	AdminLastName  string `json:"admin_last_name" binding:"required"`
	AdminPhone     string `json:"admin_phone"`
}

// RegisterOrganization creates the organization and its admin account in one
// transaction. The admin is logged in immediately.
func (s *AuthService) RegisterOrganization(ctx context.Context, input RegisterOrganizationInput) (*entity.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.AdminEmail))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, nil, fmt.Errorf("email already registered")
	} else if err != repository.ErrNotFound {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	org := &entity.Organization{
		ID:                 uuid.New().String(),
		Name:               input.OrganizationName,
		Address:            input.Address,
		Phone:              input.OrgPhone,
		Email:              input.OrgEmail,
		RegistrationNumber: input.RegistrationNumber,
		Currency:           defaultStr(input.Currency, "USD"),
		Timezone:           defaultStr(input.Timezone, "UTC"),
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	admin := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Email:          email,
		PasswordHash:   string(hash),
		FirstName:      input.AdminFirstName,
		LastName:       input.AdminLastName,
		Role:           entity.RoleAdmin,
		Phone:          input.AdminPhone,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orgRepo.Create(ctx, tx, org); err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		if err := s.userRepo.Create(ctx, tx, admin); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Organization registered",
		zap.String("organization_id", org.ID),
		zap.String("admin_id", admin.ID),
	)

	admin.Organization = org
	tokens, err := s.generateTokenPair(admin)
	if err != nil {
		return nil, nil, err
	}
	return admin, tokens, nil
}

// Login verifies credentials and returns a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil, fmt.Errorf("invalid email or password")
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if !user.IsActive {
		return nil, nil, fmt.Errorf("account is disabled")
	}
	if user.Organization != nil && !user.Organization.IsActive {
		return nil, nil, fmt.Errorf("organization is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("invalid email or password")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *AuthService) generateTokenPair(user *entity.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"org":   user.OrganizationID,
		"role":  user.Role,
		"name":  user.FullName(),
		"email": user.Email,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
		"jti":   uuid.New().String(),
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshJti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"sub":  user.ID,
		"type": "refresh",
		"iss":  s.cfg.JWT.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWT.RefreshTokenExpire).Unix(),
		"jti":  refreshJti,
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if s.rdb != nil {
		ctx := context.Background()
		s.rdb.Set(ctx, "token:refresh:"+refreshJti, user.ID, s.cfg.JWT.RefreshTokenExpire)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, nil
}

// RefreshToken rotates a valid refresh token into a fresh pair.
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*TokenPair, error) {
	token, err := jwt.Parse(refreshTokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims["type"] != "refresh" {
		return nil, fmt.Errorf("invalid token type")
	}

	jti, _ := claims["jti"].(string)
	if s.rdb == nil {
		return nil, fmt.Errorf("refresh unavailable")
	}
	userID, err := s.rdb.Get(ctx, "token:refresh:"+jti).Result()
	if err != nil {
		return nil, fmt.Errorf("refresh token expired or invalid")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is disabled")
	}

	// single use: revoke before issuing the next pair
	s.rdb.Del(ctx, "token:refresh:"+jti)

	return s.generateTokenPair(user)
}

// Logout revokes the refresh token, if one is presented.
func (s *AuthService) Logout(ctx context.Context, refreshTokenString string) error {
	if refreshTokenString == "" || s.rdb == nil {
		return nil
	}
	token, err := jwt.Parse(refreshTokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if jti, _ := claims["jti"].(string); jti != "" {
			s.rdb.Del(ctx, "token:refresh:"+jti)
		}
	}
	return nil
}

// CloseOrganization permanently removes the tenant and every row scoped to
// it: users, clients, cars, sessions, inventory, inspections, notifications.
func (s *AuthService) CloseOrganization(ctx context.Context, orgID string) error {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return err
	}
	if err := s.orgRepo.Delete(ctx, orgID); err != nil {
		return fmt.Errorf("close organization: %w", err)
	}

	s.cache.InvalidateDashboard(ctx, orgID)
	s.logger.Info("Organization closed",
		zap.String("organization_id", orgID),
		zap.String("name", org.Name),
	)
	return nil
}

// CurrentUser returns the account with its organization and capability list.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entity.User, []string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	perms, ok := s.cache.GetPermissions(ctx, user.ID)
	if !ok {
		perms = middleware.Capabilities(user.Role)
		s.cache.SetPermissions(ctx, user.ID, perms)
	}
	return user, perms, nil
}

func defaultStr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
