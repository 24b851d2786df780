package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func newRoomRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRoomRepositoryAll(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "department_code", "exclusive", "priority", "tags", "created_at", "updated_at"}).
		AddRow("room-1", "Lab Kimia", "IPA", true, true, pq.StringArray{"lab"}, time.Now(), time.Now()).
		AddRow("room-2", "R-201", "", false, false, pq.StringArray{}, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, department_code, exclusive, priority, tags, created_at, updated_at FROM rooms ORDER BY name")).
		WillReturnRows(rows)

	rooms, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.True(t, rooms[0].Exclusive)
	assert.True(t, rooms[0].HasTag(models.TagLabCapable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "department_code", "exclusive", "priority", "tags", "created_at", "updated_at"}).
		AddRow("room-1", "Lab Kimia", "IPA", true, true, pq.StringArray{"lab"}, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, department_code, exclusive, priority, tags, created_at, updated_at FROM rooms WHERE 1=1 AND department_code = ").
		WithArgs("IPA", "%lab%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rooms WHERE 1=1 AND department_code = $1 AND LOWER(name) LIKE $2")).
		WithArgs("IPA", "%lab%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rooms, total, err := repo.List(context.Background(), models.RoomFilter{Department: "IPA", Search: "Lab"})
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery("SELECT id, name, department_code, exclusive, priority, tags, created_at, updated_at FROM rooms WHERE id = ").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM rooms WHERE LOWER(name) = LOWER($1) LIMIT 1")).
		WithArgs("Lab Kimia").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.ExistsByName(context.Background(), "Lab Kimia", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryExistsByNameMiss(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM rooms WHERE LOWER(name) = LOWER($1) AND id <> $2 LIMIT 1")).
		WithArgs("R-201", "room-1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByName(context.Background(), "R-201", "room-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rooms")).
		WithArgs(sqlmock.AnyArg(), "Lab Fisika", "IPA", true, false, pq.StringArray{"lab"}, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	room := &models.Room{Name: "Lab Fisika", Department: "IPA", Exclusive: true, Tags: pq.StringArray{"lab"}}
	err := repo.Create(context.Background(), room)
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(1, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
