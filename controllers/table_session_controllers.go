package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/middlewares"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

type TableSessionController struct {
	Sessions *services.SessionService
}

func NewTableSessionController(sessions *services.SessionService) *TableSessionController {
	return &TableSessionController{Sessions: sessions}
}

// OpenSession -> seats guests at a table
func (sc *TableSessionController) OpenSession(c *gin.Context) {
	var req struct {
		TableNumber int `json:"table_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Sessions.OpenSession(c.Request.Context(), middlewares.CurrentActor(c), req.TableNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table session opened", session)
}

func (sc *TableSessionController) GetSession(c *gin.Context) {
	session, err := sc.Sessions.GetSession(c.Request.Context(), middlewares.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table session detail", session)
}

// CloseSession -> bills the session
func (sc *TableSessionController) CloseSession(c *gin.Context) {
	session, err := sc.Sessions.CloseSession(c.Request.Context(), middlewares.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table session closed", session)
}

// GetActiveSessions -> open sessions with their orders, for the kitchen
func (sc *TableSessionController) GetActiveSessions(c *gin.Context) {
	sessions, err := sc.Sessions.ListActiveSessions(c.Request.Context(), middlewares.CurrentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active table sessions", sessions)
}
