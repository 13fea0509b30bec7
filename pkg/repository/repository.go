package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// DBX: Database Error
	ErrGeneric error = errors.New("DBX: Internal server error")

	// DBXO: Bad operation
	ErrDuplicate        error = errors.New("DBXO: Duplicate")
	ErrRelationNotExist error = errors.New("DBXO: Relation not exists")
)

var (
	// Class 23 — Integrity Constraint Violation
	// https://github.com/jackc/pgerrcode/blob/master/errcode.go
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// Repository is the record store the loaders query.
type Repository[T any] interface {
	Find(ctx context.Context, options FindOptions) ([]*T, error)
	Count(ctx context.Context, options FindOptions) (int64, error)
}

// gorm generic repository
type repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) Repository[T] {
	return &repository[T]{
		db: db,
	}
}

// wrapError maps driver errors onto the package's sentinel errors.
func wrapError(err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case UniqueViolation:
			return ErrDuplicate
		case ForeignKeyViolation:
			return ErrRelationNotExist
		}
	}

	// this is usually an unidentified internal error
	return fmt.Errorf("%w: %v", ErrGeneric, err)
}

func applyFilters(db *gorm.DB, options FindOptions) *gorm.DB {
	if options.Where != nil {
		db = db.Where(map[string]any(options.Where))
	}
	if options.WhereNot != nil {
		db = db.Not(map[string]any(options.WhereNot))
	}
	return db
}

func applyFindOptions(db *gorm.DB, options FindOptions) *gorm.DB {
	isSelectAll := len(options.Select) == 1 && options.Select[0] == "*"
	if options.Select != nil && !isSelectAll {
		db = db.Select(strings.Join(options.Select, ","))
	}

	db = applyFilters(db, options)

	if options.Order != nil {
		db = db.Order(orderClause(options.Order))
	}

	if options.Limit != 0 {
		db = db.Limit(int(options.Limit))
	}

	if options.Offset != 0 {
		db = db.Offset(int(options.Offset))
	}

	return db
}

// orderClause renders order deterministically (map iteration is random).
func orderClause(order Order) string {
	fields := make([]string, 0, len(order))
	for field := range order {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, order[field]))
	}
	return strings.Join(parts, ",")
}

func (r *repository[T]) Find(ctx context.Context, options FindOptions) ([]*T, error) {
	var results []*T
	db := applyFindOptions(r.db.WithContext(ctx).Model(new(T)), options)

	if err := db.Find(&results).Error; err != nil {
		return results, wrapError(err)
	}

	return results, nil
}

func (r *repository[T]) Count(ctx context.Context, options FindOptions) (int64, error) {
	var count int64
	db := applyFilters(r.db.WithContext(ctx).Model(new(T)), options)

	if err := db.Count(&count).Error; err != nil {
		return 0, wrapError(err)
	}

	return count, nil
}
