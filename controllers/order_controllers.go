package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/middlewares"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// AddOrder -> adds a menu item to an open session
func (oc *OrderController) AddOrder(c *gin.Context) {
	var req struct {
		MenuItemID string `json:"menu_item_id" binding:"required"`
		Quantity   int    `json:"quantity"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.AddOrder(c.Request.Context(), middlewares.CurrentActor(c), c.Param("id"), services.AddOrderInput{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Notes:      req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order added", order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateOrderStatus(c.Request.Context(), middlewares.CurrentActor(c), c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	history, err := oc.Orders.OrderHistory(c.Request.Context(), middlewares.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status history", history)
}
