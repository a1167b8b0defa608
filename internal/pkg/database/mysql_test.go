package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"lessonhub/internal/pkg/apperr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Category
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, want: apperr.CategoryNotFound},
		{name: "wrapped not found", err: errors.Wrap(gorm.ErrRecordNotFound, "first"), want: apperr.CategoryNotFound},
		{name: "deadlock", err: &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}, want: apperr.CategoryConflict},
		{name: "lock wait timeout", err: &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}, want: apperr.CategoryConflict},
		{name: "duplicate key is storage", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: apperr.CategoryStorage},
		{name: "connection error", err: errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"), want: apperr.CategoryStorage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.CategoryOf(Classify(tc.err, "lesson %s", "l-1")))
		})
	}
	assert.NoError(t, Classify(nil, "noop"))
}

func TestOptions_DSN(t *testing.T) {
	dsn := Options{Addr: "db:3306", User: "app", Password: "secret", Database: "lessons"}.DSN()

	assert.Contains(t, dsn, "app:secret@tcp(db:3306)/lessons?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
