package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/middlewares"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

type UserController struct {
	Tenants *services.TenantService
}

func NewUserController(tenants *services.TenantService) *UserController {
	return &UserController{Tenants: tenants}
}

// Register -> creates a company and its first admin account
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		CompanyName string `json:"company_name" binding:"required"`
		Ruc         string `json:"ruc" binding:"required"`
		Email       string `json:"email" binding:"required"`
		Username    string `json:"username" binding:"required"`
		Password    string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := uc.Tenants.Register(c.Request.Context(), services.RegisterInput{
		CompanyName: req.CompanyName,
		Ruc:         req.Ruc,
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Company registered successfully", res)
}

func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := uc.Tenants.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", res)
}

// Me -> profile of the token holder
func (uc *UserController) Me(c *gin.Context) {
	user, err := uc.Tenants.Me(c.Request.Context(), middlewares.CurrentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current user", user)
}

func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Tenants.ListUsers(c.Request.Context(), middlewares.CurrentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Tenants.CreateUser(c.Request.Context(), middlewares.CurrentActor(c), req.Username, req.Password, models.Role(req.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User created successfully", user)
}

// UpdateUserRole -> admin changes the role of a user of the same company
func (uc *UserController) UpdateUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Tenants.UpdateUserRole(c.Request.Context(), middlewares.CurrentActor(c), c.Param("id"), models.Role(req.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User role updated", user)
}
