package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUserPostgres_FindByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE lower\\(username\\) = lower\\(trim\\(\\$1\\)\\)").
			WithArgs(" Pharma ").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
				AddRow(1, "pharma", "hash", "pharmacist", time.Now()))

		u, err := repo.FindByUsername(context.Background(), " Pharma ")
		assert.NoError(t, err)
		assert.Equal(t, "pharma", u.Username)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("nobody").WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByUsername(context.Background(), "nobody")
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, u)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
