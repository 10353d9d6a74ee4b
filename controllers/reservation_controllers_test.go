package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-manager/controllers"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/services"
)

func TestReservationEndpoints(t *testing.T) {
	db := setupTestDB(t)
	rc := controllers.NewReservationController(services.NewReservationService(db))
	r := newEngine()
	r.POST("/api/reservations", rc.CreateReservation)
	r.GET("/api/reservations/date/:date", rc.GetReservationsByDate)
	r.PATCH("/api/reservations/:id/cancel", rc.CancelReservation)
	r.PATCH("/api/reservations/:id/confirm", rc.ConfirmReservation)

	table := models.Table{Number: 3, Capacity: 4, Status: models.TableAvailable}
	require.NoError(t, db.Create(&table).Error)
	client := models.Person{Kind: models.KindClient, Name: "Alice", Surname: "Liddell"}
	require.NoError(t, db.Create(&client).Error)

	body := map[string]interface{}{
		"client_id": client.ID, "table_id": table.ID, "date": "2024-01-15", "time": "19:00", "party_size": 4,
	}
	w, env := doJSON(t, r, http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	var created models.Reservation
	decode(t, env.Data, &created)
	assert.Equal(t, models.ReservationPending, created.Status)

	w, _ = doJSON(t, r, http.MethodPost, "/api/reservations", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	body["party_size"] = 6
	body["time"] = "20:00"
	w, _ = doJSON(t, r, http.MethodPost, "/api/reservations", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["party_size"] = 2
	body["date"] = "15-01-2024"
	w, _ = doJSON(t, r, http.MethodPost, "/api/reservations", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/reservations/date/2024-01-15", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var sameDay []models.Reservation
	decode(t, env.Data, &sameDay)
	assert.Len(t, sameDay, 1)

	w, _ = doJSON(t, r, http.MethodPatch, "/api/reservations/1/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPatch, "/api/reservations/1/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
