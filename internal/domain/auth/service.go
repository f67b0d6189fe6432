package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/promptgen/promptgen-api/internal/domain/credit"
	"github.com/promptgen/promptgen-api/internal/domain/session"
	"github.com/promptgen/promptgen-api/internal/domain/user"
	"github.com/promptgen/promptgen-api/internal/pkg/jwt"
	"github.com/promptgen/promptgen-api/internal/pkg/password"
)

// ReferralConsumer resolves a captured referral code for a visitor. The read
// consumes the capture; a second call for the same visitor returns empty.
type ReferralConsumer interface {
	Consume(ctx context.Context, visitorID string) (string, error)
}

// Service handles authentication business logic
type Service struct {
	userRepo       user.Repository
	jwtService     *jwt.Service
	redis          *redis.Client // nil if Redis disabled
	credits        credit.Service
	sessions       *session.Store
	referrals      ReferralConsumer // nil if referral capture disabled
	welcomeCredits int
}

// NewService creates auth service
func NewService(
	userRepo user.Repository,
	jwtService *jwt.Service,
	redis *redis.Client,
	credits credit.Service,
	sessions *session.Store,
	referrals ReferralConsumer,
	welcomeCredits int,
) *Service {
	return &Service{
		userRepo:       userRepo,
		jwtService:     jwtService,
		redis:          redis,
		credits:        credits,
		sessions:       sessions,
		referrals:      referrals,
		welcomeCredits: welcomeCredits,
	}
}

// Register creates a new user account with welcome credits. A referral code
// from the request body wins over one captured for the visitor earlier.
func (s *Service) Register(ctx context.Context, req *RegisterRequest, visitorID string) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleUser,
	}

	if code := s.resolveReferral(ctx, req.ReferralCode, visitorID); code != "" {
		u.ReferredBy.String = code
		u.ReferredBy.Valid = true
	}

	// Two registrations can race past the existence check; the unique
	// index settles it.
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	if s.welcomeCredits > 0 {
		if err := s.credits.Add(ctx, u.ID, s.welcomeCredits, credit.TxTypeWelcome, "welcome credits", nil); err != nil {
			return nil, err
		}
		u.CreditBalance = s.welcomeCredits
	}

	return s.generateTokens(ctx, u)
}

// Login authenticates a user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates the refresh token and issues a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	userID, err := s.getRefreshToken(ctx, refreshHash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	_ = s.deleteRefreshToken(ctx, refreshHash)

	return s.generateTokens(ctx, u)
}

// Logout invalidates the refresh token and drops the cached session profile
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	s.sessions.Invalidate(ctx, userID)
	if refreshToken == "" {
		return nil
	}
	return s.deleteRefreshToken(ctx, jwt.HashRefreshToken(refreshToken))
}

// GetCurrentUser returns the session profile for the authenticated user
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*session.Profile, error) {
	p, err := s.sessions.GetProfile(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return p, nil
}

// resolveReferral returns the referral code to attach, preferring the body
// code and falling back to the consumed visitor capture. Codes that do not
// belong to an affiliate are dropped.
func (s *Service) resolveReferral(ctx context.Context, bodyCode, visitorID string) string {
	code := bodyCode
	if code == "" && visitorID != "" && s.referrals != nil {
		captured, err := s.referrals.Consume(ctx, visitorID)
		if err == nil {
			code = captured
		}
	}
	if code == "" {
		return ""
	}

	owner, err := s.userRepo.GetByAffiliateID(ctx, code)
	if err != nil || owner == nil || !owner.IsAffiliate() {
		return ""
	}
	return code
}

// generateTokens creates access and refresh tokens
func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	// Store hash(refresh) in Redis, return the raw token to the client.
	refreshHash := jwt.HashRefreshToken(refreshToken)
	if err := s.storeRefreshToken(ctx, refreshHash, u.ID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u.ID, u.Email, string(u.Role), u.CreditBalance, u.CreatedAt),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

// Redis helpers (handle nil redis gracefully)
func (s *Service) storeRefreshToken(ctx context.Context, tokenHash string, userID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+tokenHash, userID.String(), s.jwtService.GetRefreshTTL()).Err()
}

func (s *Service) getRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	if s.redis == nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	val, err := s.redis.Get(ctx, "refresh:"+tokenHash).Result()
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return uuid.Parse(val)
}

func (s *Service) deleteRefreshToken(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+tokenHash).Err()
}
