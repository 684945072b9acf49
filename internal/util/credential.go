package util

import (
	"context"
	"encoding/json"
	"time"
)

const (
	RoleAuthenticated = "authenticated"
	RoleAnon          = "anon"
)

// StoreCredential 为单个请求换取的数据存储凭证，只存在于请求 context 中
type StoreCredential struct {
	Role      string
	UserID    string
	Token     string
	ExpiresAt time.Time
}

func (c *StoreCredential) ReadOnly() bool {
	return c == nil || c.Role != RoleAuthenticated
}

// ClaimsJSON 与托管 Postgres 行级安全策略读取的 request.jwt.claims 格式一致
func (c *StoreCredential) ClaimsJSON() string {
	claims := map[string]interface{}{"role": c.Role}
	if c.UserID != "" {
		claims["sub"] = c.UserID
	}
	if !c.ExpiresAt.IsZero() {
		claims["exp"] = c.ExpiresAt.Unix()
	}
	b, _ := json.Marshal(claims)
	return string(b)
}

type credentialKey struct{}

func WithStoreCredential(ctx context.Context, cred *StoreCredential) context.Context {
	return context.WithValue(ctx, credentialKey{}, cred)
}

func StoreCredentialFromContext(ctx context.Context) *StoreCredential {
	cred, _ := ctx.Value(credentialKey{}).(*StoreCredential)
	return cred
}
