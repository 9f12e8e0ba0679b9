package repositories

import (
	"errors"
	"fmt"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	rows int64
	err  error
}

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.rows, f.err }

func TestCheckAffectedRows(t *testing.T) {
	assert.NoError(t, checkAffectedRows(fakeResult{rows: 1}, ErrTourNotFound))
	assert.ErrorIs(t, checkAffectedRows(fakeResult{rows: 0}, ErrTourNotFound), ErrTourNotFound)

	err := checkAffectedRows(fakeResult{err: errors.New("driver")}, ErrTourNotFound)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTourNotFound)
}

func TestPqErrorClassification(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "tours_name_key"}
	fk := fmt.Errorf("wrapped: %w", &pq.Error{Code: "23503"})

	code, constraint := pqErrorCode(unique)
	assert.Equal(t, "23505", code)
	assert.Equal(t, "tours_name_key", constraint)

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isForeignKeyViolation(unique))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}

func TestPurchaseListQuery(t *testing.T) {
	q := psql.Select("*").From("purchases").
		Where(sq.Eq{"user_id": "u"}).
		Where(sq.Eq{"event_id": []int64{3, 7}})
	query, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM purchases WHERE user_id = $1 AND event_id IN ($2,$3)", query)
	assert.Equal(t, []interface{}{"u", int64(3), int64(7)}, args)
}
