package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/middlewares"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

type tableRequest struct {
	TableNumber int    `json:"table_number" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required"`
	Location    string `json:"location"`
	IsActive    *bool  `json:"is_active"`
}

// CreateTable -> adds a new active table
func (tc *TableController) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.CreateTable(c.Request.Context(), middlewares.CurrentActor(c), services.TableInput{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Location:    req.Location,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> active tables of the company
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.ListTables(c.Request.Context(), middlewares.CurrentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTable -> overwrites number, capacity, location and active flag
func (tc *TableController) UpdateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	table, err := tc.Tables.UpdateTable(c.Request.Context(), middlewares.CurrentActor(c), c.Param("id"), services.TableInput{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Location:    req.Location,
		IsActive:    active,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> deactivates the table
func (tc *TableController) DeleteTable(c *gin.Context) {
	id := c.Param("id")
	if err := tc.Tables.DeleteTable(c.Request.Context(), middlewares.CurrentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}
