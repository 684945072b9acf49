package repository

import (
	"context"

	"tutor_backend/internal/util"

	"gorm.io/gorm"
)

// Store 包装 gorm 连接，按请求凭证限定数据访问
type Store struct {
	DB *gorm.DB
	// 在事务内写入 request.jwt.claims，仅 postgres 有效
	ForwardClaims bool
}

func NewStore(db *gorm.DB, forwardClaims bool) *Store {
	return &Store{DB: db, ForwardClaims: forwardClaims}
}

// run 执行 fn。只读凭证拒绝写操作；未携带凭证视为内部调用
func (s *Store) run(ctx context.Context, write bool, fn func(tx *gorm.DB) error) error {
	cred := util.StoreCredentialFromContext(ctx)
	if cred != nil && write && cred.ReadOnly() {
		return util.ErrReadOnlyCredential
	}

	db := s.DB.WithContext(ctx)
	if cred == nil || !s.ForwardClaims || db.Dialector.Name() != "postgres" {
		return fn(db)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT set_config('request.jwt.claims', ?, true)", cred.ClaimsJSON()).Error; err != nil {
			return err
		}
		if err := tx.Exec("SELECT set_config('role', ?, true)", cred.Role).Error; err != nil {
			return err
		}
		return fn(tx)
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
