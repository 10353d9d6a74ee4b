package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
)

func strPtr(s string) *string { return &s }

func TestCreateEmployeeDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewPersonService(db)

	cook, err := svc.Create(context.Background(), models.KindCook, PersonInput{
		Name: "Remy", Surname: "Rat", Specialty: strPtr("Sauces"),
	})
	require.NoError(t, err)
	require.NotNil(t, cook.HireDate)
	require.NotNil(t, cook.Position)
	assert.Equal(t, "Cook", *cook.Position)
}

func TestPersonFieldsFollowKind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewPersonService(db)

	_, err := svc.Create(ctx, models.KindClient, PersonInput{Name: "A", Surname: "B", Zone: strPtr("Terrace")})
	assert.True(t, utils.IsKind(err, utils.KindInvalid))

	_, err = svc.Create(ctx, models.KindCook, PersonInput{Name: "A", Surname: "B", Zone: strPtr("Terrace")})
	assert.True(t, utils.IsKind(err, utils.KindInvalid))

	negative := decimal.NewFromInt(-1)
	_, err = svc.Create(ctx, models.KindServer, PersonInput{Name: "A", Surname: "B", Salary: &negative})
	assert.True(t, utils.IsKind(err, utils.KindInvalid))

	_, err = svc.Create(ctx, models.KindClient, PersonInput{Name: "A", Surname: "B", Email: strPtr("nope")})
	assert.True(t, utils.IsKind(err, utils.KindInvalid))

	_, err = svc.Create(ctx, models.KindClient, PersonInput{Name: "A", Surname: "B", Email: strPtr("Bob <bob@x.io>")})
	assert.True(t, utils.IsKind(err, utils.KindInvalid))

	server, err := svc.Create(ctx, models.KindServer, PersonInput{Name: "A", Surname: "B", Zone: strPtr("Terrace")})
	require.NoError(t, err)
	assert.Equal(t, "A B", server.FullName())
}

func TestPersonKindScopesLookups(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewPersonService(db)
	client := mustPerson(t, db, models.KindClient, "Alice")
	mustPerson(t, db, models.KindServer, "Bob")
	mustPerson(t, db, models.KindCook, "Remy")

	_, err := svc.Get(ctx, client.ID, models.KindServer, models.KindCook, models.KindManager)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	employees, err := svc.List(ctx, models.KindServer, models.KindCook, models.KindManager)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	clients, err := svc.List(ctx, models.KindClient)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	err = svc.Delete(ctx, client.ID, models.KindServer)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestDeleteClientKeepsOrders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewPersonService(db)
	client := mustPerson(t, db, models.KindClient, "Alice")
	order, err := NewOrderService(db, kds.Nop).Create(ctx, CreateOrderInput{ClientID: &client.ID})
	require.NoError(t, err)

	orders, err := svc.ClientOrders(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	require.NoError(t, svc.Delete(ctx, client.ID, models.KindClient))

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Nil(t, stored.ClientID)
}
