package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"lessonhub/internal/service/order/domain"
)

func TestGormOrderRepository_SaveSQL(t *testing.T) {
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       "app:secret@tcp(127.0.0.1:1)/lessons?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, SkipDefaultTransaction: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var sql string
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		sql = tx.Statement.SQL.String()
	}))

	order := &domain.Order{ID: "o-1", LessonIDs: []string{"a"}, LessonTitles: []string{"Art"}, NumberOfSpaces: 1, CreatedAt: time.Now()}
	require.NoError(t, NewGormOrderRepository(db).Save(context.Background(), order))
	assert.Contains(t, sql, "INSERT INTO `orders`")
	assert.Contains(t, sql, "`lesson_titles`")
}

func TestOrderMapper(t *testing.T) {
	in := &domain.Order{
		ID:             "o-1",
		Customer:       domain.Customer{Name: "Ann", Phone: "1", Address: "x", City: "y", State: "z", Zip: "0"},
		LessonIDs:      []string{"a", "b"},
		LessonTitles:   []string{"Art", "Art", "Ballet"},
		NumberOfSpaces: 3,
		CreatedAt:      time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
	assert.Equal(t, in, ToDomainOrder(FromDomainOrder(in)))
}
