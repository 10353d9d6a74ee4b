package services

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-manager/config"
	"github.com/yeremiapane/restaurant-manager/database"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.SilenceLogger()
	db, err := config.InitDB(&config.Config{DBDriver: "sqlite", DBDSN: ":memory:?_foreign_keys=on"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type sentEvent struct {
	Event string
	Data  interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (r *recordingNotifier) Notify(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{Event: event, Data: data})
}

func (r *recordingNotifier) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event)
	}
	return out
}

func mustTable(t *testing.T, db *gorm.DB, number, capacity int) *models.Table {
	t.Helper()
	table := &models.Table{Number: number, Capacity: capacity, Status: models.TableAvailable}
	require.NoError(t, db.Create(table).Error)
	return table
}

func mustDish(t *testing.T, db *gorm.DB, name, price string) *models.Dish {
	t.Helper()
	dish := &models.Dish{Name: name, Price: decimal.RequireFromString(price), Available: true}
	require.NoError(t, db.Create(dish).Error)
	return dish
}

func mustPerson(t *testing.T, db *gorm.DB, kind models.PersonKind, name string) *models.Person {
	t.Helper()
	p, err := NewPersonService(db).Create(context.Background(), kind, PersonInput{Name: name, Surname: "Test"})
	require.NoError(t, err)
	return p
}
