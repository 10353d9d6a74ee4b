package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

func booking(t *testing.T, db *gorm.DB, capacity int) (ReservationInput, *models.Table) {
	t.Helper()
	table := mustTable(t, db, 3, capacity)
	client := mustPerson(t, db, models.KindClient, "Alice")
	date, err := utils.ParseDate("2024-01-15")
	require.NoError(t, err)
	at, err := utils.ParseClock("19:00")
	require.NoError(t, err)
	return ReservationInput{ClientID: client.ID, TableID: table.ID, Date: date, Time: at, PartySize: 4}, table
}

func TestReservationSlotIsExclusive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db)
	in, _ := booking(t, db, 4)

	first, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, first.Status)

	_, err = svc.Create(ctx, in)
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	later := in
	later.Time, err = utils.ParseClock("21:30")
	require.NoError(t, err)
	_, err = svc.Create(ctx, later)
	assert.NoError(t, err)
}

func TestReservationOverCapacity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db)
	in, _ := booking(t, db, 4)
	in.PartySize = 6

	_, err := svc.Create(ctx, in)
	assert.True(t, utils.IsKind(err, utils.KindInvalid))

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)

	in.PartySize = 0
	_, err = svc.Create(ctx, in)
	assert.True(t, utils.IsKind(err, utils.KindInvalid))
}

func TestCancelledReservationFreesSlot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db)
	in, _ := booking(t, db, 4)

	first, err := svc.Create(ctx, in)
	require.NoError(t, err)
	cancelled, err := svc.Cancel(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, cancelled.Status)

	again, err := svc.Cancel(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, cancelled.Version, again.Version)

	_, err = svc.Confirm(ctx, first.ID)
	assert.True(t, utils.IsKind(err, utils.KindInvalidTransition))

	second, err := svc.Create(ctx, in)
	require.NoError(t, err)
	confirmed, err := svc.Confirm(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, confirmed.Status)
	_, err = svc.Confirm(ctx, second.ID)
	assert.NoError(t, err)
}

func TestReservationUpdateIgnoresItself(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db)
	in, _ := booking(t, db, 4)

	first, err := svc.Create(ctx, in)
	require.NoError(t, err)
	in.PartySize = 2
	updated, err := svc.Update(ctx, first.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.PartySize)

	other := in
	other.Time, err = utils.ParseClock("12:00")
	require.NoError(t, err)
	second, err := svc.Create(ctx, other)
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID, in)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestReservationsByDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db)
	in, _ := booking(t, db, 4)
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	next := in
	next.Date, err = utils.ParseDate("2024-01-16")
	require.NoError(t, err)
	_, err = svc.Create(ctx, next)
	require.NoError(t, err)

	found, err := svc.ByDate(ctx, in.Date)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "19:00:00", found[0].Time.String())
}

func TestReservationUnknownRefs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db)
	in, table := booking(t, db, 4)

	bad := in
	bad.TableID = table.ID + 100
	_, err := svc.Create(ctx, bad)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	bad = in
	bad.ClientID = 999
	_, err = svc.Create(ctx, bad)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestCancelledReservationUpdateStillValidates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db)
	in, _ := booking(t, db, 4)

	first, err := svc.Create(ctx, in)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, first.ID)
	require.NoError(t, err)

	crowd := in
	crowd.PartySize = 50
	_, err = svc.Update(ctx, first.ID, crowd)
	assert.True(t, utils.IsKind(err, utils.KindInvalid))

	missing := in
	missing.TableID = 9999
	_, err = svc.Update(ctx, first.ID, missing)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, in.PartySize, got.PartySize)

	// A cancelled booking does not hold its slot, so a live one may share it.
	_, err = svc.Create(ctx, in)
	require.NoError(t, err)
	in.PartySize = 3
	_, err = svc.Update(ctx, first.ID, in)
	require.NoError(t, err)
}
