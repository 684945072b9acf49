package service

import (
	"errors"
	"time"

	"tutor_backend/internal/config"
	"tutor_backend/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

var errStoreSecretMissing = errors.New("store credential secret is not configured")

// StoreCredentialService 将认证服务的会话换成数据存储的短期凭证
type StoreCredentialService struct {
	secret  string
	anonKey string
	ttl     time.Duration
	now     func() time.Time
}

func NewStoreCredentialService(auth config.AuthConfig, db config.DatabaseConfig) *StoreCredentialService {
	ttl := auth.StoreTokenTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StoreCredentialService{
		secret:  auth.StoreJWTSecret,
		anonKey: db.AnonKey,
		ttl:     ttl,
		now:     time.Now,
	}
}

type storeClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *StoreCredentialService) Exchange(claims *util.Claims) (*util.StoreCredential, error) {
	if s.secret == "" {
		return nil, errStoreSecretMissing
	}
	if claims == nil || claims.UserID() == "" {
		return nil, util.ErrUnauthenticated
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, storeClaims{
		Role: util.RoleAuthenticated,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID(),
			Audience:  jwt.ClaimStrings{util.RoleAuthenticated},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	return &util.StoreCredential{
		Role:      util.RoleAuthenticated,
		UserID:    claims.UserID(),
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Anonymous 换取失败时的只读凭证
func (s *StoreCredentialService) Anonymous() *util.StoreCredential {
	return &util.StoreCredential{Role: util.RoleAnon, Token: s.anonKey}
}
