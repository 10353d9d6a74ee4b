package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-manager/config"
	"github.com/yeremiapane/restaurant-manager/database"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/router"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.SilenceLogger()
	os.Exit(m.Run())
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	hub    *kds.Hub
	admin  string
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{
		DBDriver:       "sqlite",
		DBDSN:          ":memory:?_foreign_keys=on",
		JWTSecret:      "integration-secret",
		JWTIssuer:      "RestaurantAPI",
		JWTAudience:    "RestaurantApp",
		JWTTTL:         time.Hour,
		CORSOrigins:    []string{"*"},
		LoginRate:      100,
		RestaurantName: "Chez Test",
		VATRate:        decimal.RequireFromString("0.10"),
	}
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hub := kds.NewHub()
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL, nil)
	r := router.SetupRouter(router.Options{Config: cfg, DB: db, Tokens: tokens, Hub: hub})

	root, err := services.NewAccountService(db, tokens).CreateAccount(context.Background(), services.RegisterInput{
		Email: "root@example.com", Password: "secret123", Name: "Root", Surname: "Manager", Role: models.RoleManager,
	})
	require.NoError(t, err)
	return &testApp{t: t, router: r, hub: hub, admin: root.Token}
}

func (a *testApp) call(method, path, token string, body interface{}) (int, apiResponse) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var res apiResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return w.Code, res
}

// register signs up clients publicly and has the root manager open staff
// accounts.
func (a *testApp) register(email, role string) string {
	a.t.Helper()
	path, token := "/api/auth/register", ""
	if role != "Client" {
		path, token = "/api/auth/accounts", a.admin
	}
	code, res := a.call(http.MethodPost, path, token, map[string]string{
		"email": email, "password": "secret123", "name": "Test", "surname": role, "role": role,
	})
	require.Equal(a.t, http.StatusCreated, code, res.Message)
	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(res.Data, &auth))
	require.NotEmpty(a.t, auth.Token)
	return auth.Token
}

func idOf(t *testing.T, raw json.RawMessage) uint {
	t.Helper()
	var v struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &v))
	require.NotZero(t, v.ID)
	return v.ID
}

// TestDiningFlow seats a table, orders, invoices and pays, then checks the
// table is free again.
func TestDiningFlow(t *testing.T) {
	app := setupApp(t)
	manager := app.register("boss@example.com", "Manager")

	code, res := app.call(http.MethodPost, "/api/tables", manager, map[string]int{"number": 5, "capacity": 4})
	require.Equal(t, http.StatusCreated, code, res.Message)
	tableID := idOf(t, res.Data)

	code, res = app.call(http.MethodPost, "/api/dishes", manager, map[string]interface{}{"name": "Burger", "price": "10.00"})
	require.Equal(t, http.StatusCreated, code, res.Message)
	dishID := idOf(t, res.Data)

	code, res = app.call(http.MethodPost, "/api/orders", manager, map[string]interface{}{"table_id": tableID})
	require.Equal(t, http.StatusCreated, code, res.Message)
	orderID := idOf(t, res.Data)

	code, res = app.call(http.MethodGet, fmt.Sprintf("/api/tables/%d", tableID), manager, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), `"status":"Occupied"`)

	code, res = app.call(http.MethodPost, fmt.Sprintf("/api/orders/%d/lines", orderID), manager,
		map[string]interface{}{"dish_id": dishID, "quantity": 2})
	require.Equal(t, http.StatusCreated, code, res.Message)
	var order struct {
		Total decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &order))
	assert.True(t, decimal.NewFromInt(20).Equal(order.Total), order.Total.String())

	code, res = app.call(http.MethodPost, fmt.Sprintf("/api/invoices/order/%d", orderID), manager, nil)
	require.Equal(t, http.StatusCreated, code, res.Message)
	invoiceID := idOf(t, res.Data)

	code, res = app.call(http.MethodPatch, fmt.Sprintf("/api/invoices/%d/pay", invoiceID), manager,
		map[string]string{"payment_method": "Card"})
	require.Equal(t, http.StatusOK, code, res.Message)
	var paid struct {
		Invoice struct{ Status string } `json:"invoice"`
		Order   struct{ Status string } `json:"order"`
		Table   struct{ Status string } `json:"table"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &paid))
	assert.Equal(t, "Paid", paid.Invoice.Status)
	assert.Equal(t, "Paid", paid.Order.Status)
	assert.Equal(t, "Available", paid.Table.Status)

	code, _ = app.call(http.MethodGet, "/api/statistics/dashboard", manager, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRoleGuards(t *testing.T) {
	app := setupApp(t)
	client := app.register("guest@example.com", "Client")
	cook := app.register("cook@example.com", "Cook")

	code, _ := app.call(http.MethodGet, "/api/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.call(http.MethodGet, "/api/tables", client, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.call(http.MethodPost, "/api/tables", client, map[string]int{"number": 1, "capacity": 2})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.call(http.MethodGet, "/api/orders", client, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.call(http.MethodGet, "/api/orders", cook, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.call(http.MethodPost, "/api/orders", cook, map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.call(http.MethodGet, "/api/stocks", cook, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestLoginMeLogout(t *testing.T) {
	app := setupApp(t)
	app.register("server@example.com", "Server")

	code, _ := app.call(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "server@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, res := app.call(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "server@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, code, res.Message)
	var auth struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &auth))
	assert.Equal(t, "Server", auth.Role)

	code, res = app.call(http.MethodGet, "/api/auth/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), "server@example.com")

	code, _ = app.call(http.MethodPost, "/api/auth/logout", auth.Token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = app.call(http.MethodGet, "/api/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "server@example.com", "password": "secret123", "name": "Dup", "surname": "Licate",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestPublicRegisterCannotMintStaff(t *testing.T) {
	app := setupApp(t)

	for _, role := range []string{"Server", "Cook", "Manager"} {
		code, _ := app.call(http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "intruder@example.com", "password": "secret123", "name": "Eve", "surname": "Intruder", "role": role,
		})
		assert.Equal(t, http.StatusForbidden, code, role)
	}

	client := app.register("guest@example.com", "Client")
	code, _ := app.call(http.MethodPost, "/api/auth/accounts", client, map[string]string{
		"email": "intruder@example.com", "password": "secret123", "name": "Eve", "surname": "Intruder", "role": "Manager",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "Bob <bob@x.io>", "password": "secret123", "name": "Bob", "surname": "Display",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestKitchenFeed(t *testing.T) {
	app := setupApp(t)
	manager := app.register("boss@example.com", "Manager")
	client := app.register("guest@example.com", "Client")

	srv := httptest.NewServer(app.router)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/kitchen?token="

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+client, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+manager, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return app.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	code, res := app.call(http.MethodPost, "/api/orders", manager, map[string]interface{}{})
	require.Equal(t, http.StatusCreated, code, res.Message)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg kds.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, kds.EventOrderUpdate, msg.Event)
}

func TestPing(t *testing.T) {
	app := setupApp(t)
	code, res := app.call(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", res.Message)
}
