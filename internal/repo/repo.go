package repo

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

const defaultQueryTimeout = 5 * time.Second

type GormRepo struct {
	DB           *gorm.DB
	QueryTimeout time.Duration
}

func New(db *gorm.DB, queryTimeout time.Duration) *GormRepo {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &GormRepo{DB: db, QueryTimeout: queryTimeout}
}

// inTx runs fn in a single transaction bounded by the query timeout.
// gorm commits when fn returns nil and rolls back on error or panic, so the
// borrowed connection goes back to the pool exactly once on every path.
func (r *GormRepo) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.QueryTimeout)
	defer cancel()
	return r.DB.WithContext(ctx).Transaction(fn)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	return false
}
