package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/tablesession-api/middlewares"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

type menuItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category" binding:"required"`
	IsAvailable *bool            `json:"is_available"`
}

func (r menuItemRequest) input() services.MenuItemInput {
	return services.MenuItemInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Category:    r.Category,
		IsAvailable: r.IsAvailable,
	}
}

// GetAllMenus -> available items, or every item with ?include_unavailable=true
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	includeUnavailable := false
	if raw := c.Query("include_unavailable"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("include_unavailable must be a boolean"))
			return
		}
		includeUnavailable = v
	}

	items, err := mc.Menu.ListMenuItems(c.Request.Context(), middlewares.CurrentActor(c), includeUnavailable)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// GetPublicMenu -> unauthenticated menu of one company
func (mc *MenuController) GetPublicMenu(c *gin.Context) {
	items, err := mc.Menu.ListPublicMenu(c.Request.Context(), c.Param("company_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Menu.CreateMenuItem(c.Request.Context(), middlewares.CurrentActor(c), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created successfully", item)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Menu.UpdateMenuItem(c.Request.Context(), middlewares.CurrentActor(c), c.Param("id"), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenu -> marks the item unavailable
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id := c.Param("id")
	if err := mc.Menu.DeleteMenuItem(c.Request.Context(), middlewares.CurrentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": id})
}
