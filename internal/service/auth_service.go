package service

import (
	"context"
	"errors"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage/postgres"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "gw-currency-trader"

type Auth interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.MessageResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.ProfileResponse, error)
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

type AuthService struct {
	userRepo      postgres.UserRepository
	walletRepo    postgres.WalletRepository
	txManager     TxManager
	jwtSecret     []byte
	jwtExpiration time.Duration
	log           *slog.Logger
}

func NewAuthService(
	userRepo postgres.UserRepository,
	walletRepo postgres.WalletRepository,
	txManager TxManager,
	jwtSecret string,
	jwtExpiration time.Duration,
	log *slog.Logger,
) Auth {
	return &AuthService{
		userRepo:      userRepo,
		walletRepo:    walletRepo,
		txManager:     txManager,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
		log:           log,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.MessageResponse, error) {
	const op = "service.Register"

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("failed to hash password", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		createdUser, err := s.userRepo.CreateTx(ctx, tx, user)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		wallet := &models.Wallet{
			UserID:       createdUser.ID,
			CurrencyCode: models.BaseCurrency,
			Balance:      decimal.Zero,
		}
		if err := s.walletRepo.CreateWalletTx(ctx, tx, wallet); err != nil {
			return fmt.Errorf("failed to create %s wallet: %w", models.BaseCurrency, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, custom_err.ErrEmailExists) {
			s.log.Info("email already registered", slog.String("op", op))
		} else {
			s.log.Error("failed to register user", slog.String("op", op), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered successfully",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()))

	return &models.MessageResponse{
		Message: "User registered successfully",
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	const op = "service.Login"
	const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, custom_err.ErrNotFound) {
		s.log.Error("failed to get user", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// unknown emails still pay for a bcrypt comparison
	hashToCompare := dummyHash
	if user != nil {
		hashToCompare = user.PasswordHash
	}

	err = bcrypt.CompareHashAndPassword([]byte(hashToCompare), []byte(req.Password))
	if user == nil || err != nil {
		return nil, custom_err.ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		s.log.Error("failed to generate JWT", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in successfully",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()))

	return &models.LoginResponse{
		Message:     "Login successful",
		AccessToken: token,
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.ProfileResponse, error) {
	const op = "service.Profile"

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.ProfileResponse{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
	}, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, custom_err.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, custom_err.ErrTokenNotActive
	default:
		return nil, custom_err.ErrInvalidToken
	}

	if claims.UserID == uuid.Nil {
		return nil, custom_err.ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
