package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fystack/appstate/pkg/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB renders postgres SQL without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=appstate dbname=appstate sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"not found", gorm.ErrRecordNotFound, nil},
		{"unique violation", &pgconn.PgError{Code: UniqueViolation}, ErrDuplicate},
		{"wrapped foreign key violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: ForeignKeyViolation}), ErrRelationNotExist},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, ErrGeneric},
		{"unknown", errors.New("connection reset"), ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at ASC,name DESC", orderClause(Order{
		"name":       OrderTypeDesc,
		"created_at": OrderTypeAsc,
	}))
}

func TestApplyFindOptions_WhereNotRendersNotIn(t *testing.T) {
	db := dryRunDB(t)

	var projects []*model.Project
	stmt := applyFindOptions(db.Model(&model.Project{}), FindOptions{
		WhereNot: WhereType{"parent_id": []string{"org_a", "org_scratchpad"}},
		Order:    Order{"created_at": OrderTypeAsc},
	}).Find(&projects).Statement

	assert.Equal(t,
		`SELECT * FROM "projects" WHERE "projects"."parent_id" NOT IN ($1,$2) AND "projects"."deleted_at" IS NULL ORDER BY created_at ASC`,
		stmt.SQL.String())
	assert.Equal(t, []any{"org_a", "org_scratchpad"}, stmt.Vars)
}

func TestApplyFindOptions_SelectLimitOffset(t *testing.T) {
	db := dryRunDB(t)

	var projects []*model.Project
	stmt := applyFindOptions(db.Model(&model.Project{}), FindOptions{
		Select: Select("id", "name"),
		Limit:  10,
		Offset: 20,
	}).Find(&projects).Statement

	sql := stmt.SQL.String()
	assert.Regexp(t, `^SELECT "?id"?,\s*"?name"? FROM "projects"`, sql)
	assert.Contains(t, sql, "LIMIT $1 OFFSET $2")
}

func TestApplyFilters_CountRendersWhere(t *testing.T) {
	db := dryRunDB(t)

	var n int64
	stmt := applyFilters(db.Model(&model.Workspace{}), FindOptions{
		Where: WhereType{"parent_id": "proj_1"},
	}).Count(&n).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "count(*)")
	assert.Contains(t, sql, `FROM "workspaces" WHERE "workspaces"."parent_id" = $1`)
	assert.Contains(t, sql, `"workspaces"."deleted_at" IS NULL`)
	assert.Equal(t, []any{"proj_1"}, stmt.Vars)
}
