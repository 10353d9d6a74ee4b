package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

type ClientController struct {
	People *services.PersonService
}

func NewClientController(people *services.PersonService) *ClientController {
	return &ClientController{People: people}
}

func (cc *ClientController) GetAllClients(c *gin.Context) {
	clients, err := cc.People.List(c.Request.Context(), models.KindClient)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of clients", clients)
}

func (cc *ClientController) GetClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	client, err := cc.People.Get(c.Request.Context(), id, models.KindClient)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client details", client)
}

func (cc *ClientController) CreateClient(c *gin.Context) {
	var req services.PersonInput
	if !bindJSON(c, &req) {
		return
	}
	client, err := cc.People.Create(c.Request.Context(), models.KindClient, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, fmt.Sprintf("/api/clients/%d", client.ID), "Client created successfully", client)
}

func (cc *ClientController) UpdateClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.PersonInput
	if !bindJSON(c, &req) {
		return
	}
	client, err := cc.People.Update(c.Request.Context(), id, []models.PersonKind{models.KindClient}, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client updated", client)
}

func (cc *ClientController) DeleteClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := cc.People.Delete(c.Request.Context(), id, models.KindClient); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client deleted", nil)
}

func (cc *ClientController) GetClientReservations(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reservations, err := cc.People.ClientReservations(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client reservations", reservations)
}

func (cc *ClientController) GetClientOrders(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	orders, err := cc.People.ClientOrders(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client orders", orders)
}
