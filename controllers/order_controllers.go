package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrdersInProgress(c *gin.Context) {
	orders, err := oc.Orders.InProgress(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders in progress", orders)
}

func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	tableID, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	orders, err := oc.Orders.ByTable(c.Request.Context(), tableID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of table orders", orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order details", order)
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.Orders.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, fmt.Sprintf("/api/orders/%d", order.ID), "Order created successfully", order)
}

func (oc *OrderController) AddOrderLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		DishID   uint `json:"dish_id" binding:"required"`
		Quantity int  `json:"quantity" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	order, err := oc.Orders.AddLine(c.Request.Context(), id, body.DishID, body.Quantity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	line := order.Lines[len(order.Lines)-1]
	utils.RespondCreated(c, fmt.Sprintf("/api/orderlines/%d", line.ID), "Order line added", order)
}

func (oc *OrderController) RemoveOrderLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	lineID, ok := paramID(c, "line_id")
	if !ok {
		return
	}
	order, err := oc.Orders.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order line removed", order)
}

func (oc *OrderController) PrepareOrder(c *gin.Context) {
	var body struct {
		CookID uint `json:"cook_id" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	oc.changeStatus(c, services.StatusChange{Status: models.OrderInPrep, CookID: &body.CookID})
}

func (oc *OrderController) MarkOrderReady(c *gin.Context) {
	oc.changeStatus(c, services.StatusChange{Status: models.OrderReady})
}

func (oc *OrderController) ServeOrder(c *gin.Context) {
	oc.changeStatus(c, services.StatusChange{Status: models.OrderServed})
}

// UpdateOrderStatus is the generic transition. Only managers may override
// the normal sequence.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var body services.StatusChange
	if !bindJSON(c, &body) {
		return
	}
	if body.Override && currentRole(c) != models.RoleManager {
		utils.RespondError(c, utils.Forbiddenf("only a manager can override the order status"))
		return
	}
	oc.changeStatus(c, body)
}

func (oc *OrderController) changeStatus(c *gin.Context, change services.StatusChange) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.ChangeStatus(c.Request.Context(), id, change)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

func (oc *OrderController) GetOrderLines(c *gin.Context) {
	var orderID *uint
	if raw := c.Query("order_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, utils.Invalidf("invalid order_id %q", raw))
			return
		}
		v := uint(id)
		orderID = &v
	}
	lines, err := oc.Orders.ListLines(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of order lines", lines)
}

func (oc *OrderController) GetOrderLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	line, err := oc.Orders.GetLine(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order line details", line)
}
