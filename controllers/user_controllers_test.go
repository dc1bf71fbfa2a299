package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablesession-api/controllers"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/services"
	"gorm.io/gorm"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	r, auth := newEngine()
	userCtrl := controllers.NewUserController(services.NewTenantService(db, timeout, tokens))
	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)
	auth.GET("/me", userCtrl.Me)
	auth.GET("/users", userCtrl.ListUsers)
	auth.POST("/users", userCtrl.CreateUser)
	auth.PUT("/users/:id", userCtrl.UpdateUserRole)
	return r
}

type authResponse struct {
	User    models.User    `json:"user"`
	Company models.Company `json:"company"`
	Token   string         `json:"token"`
}

func registerBody() gin.H {
	return gin.H{
		"company_name": "Trattoria",
		"ruc":          "20123456789",
		"email":        "owner@trattoria.test",
		"username":     "owner",
		"password":     "secret123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	w := doRequest(t, router, http.MethodPost, "/register", "", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var registered authResponse
	decode(t, w, &registered)
	assert.Equal(t, models.RoleAdmin, registered.User.Role)
	assert.Equal(t, registered.Company.ID, registered.User.CompanyID)
	assert.NotEmpty(t, registered.Token)

	w = doRequest(t, router, http.MethodPost, "/register", "", registerBody())
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodPost, "/login", "", gin.H{"username": "owner", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var loggedIn authResponse
	decode(t, w, &loggedIn)
	assert.NotEmpty(t, loggedIn.Token)

	w = doRequest(t, router, http.MethodGet, "/me", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	decode(t, w, &me)
	assert.Equal(t, "owner", me.Username)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)
	require.Equal(t, http.StatusCreated, doRequest(t, router, http.MethodPost, "/register", "", registerBody()).Code)

	w := doRequest(t, router, http.MethodPost, "/login", "", gin.H{"username": "owner", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Status)

	w = doRequest(t, router, http.MethodPost, "/login", "", gin.H{"username": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	body := registerBody()
	body["email"] = "not-an-email"
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, http.MethodPost, "/register", "", body).Code)

	body = registerBody()
	body["password"] = "123"
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, http.MethodPost, "/register", "", body).Code)
}

func TestAdminManagesStaff(t *testing.T) {
	db := setupTestDB(t)
	acme := seedCompany(t, db)
	router := setupUserRouter(db)
	admin := acme.Tokens[models.RoleAdmin]

	w := doRequest(t, router, http.MethodPost, "/users", admin, gin.H{"username": "waiter", "password": "secret123", "role": "frontdesk"})
	require.Equal(t, http.StatusCreated, w.Code)
	var waiter models.User
	decode(t, w, &waiter)
	assert.Equal(t, models.RoleFrontdesk, waiter.Role)
	assert.Equal(t, acme.CompanyID, waiter.CompanyID)

	w = doRequest(t, router, http.MethodPost, "/users", admin, gin.H{"username": "chef", "password": "secret123", "role": "chef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPut, "/users/"+waiter.ID, admin, gin.H{"role": "backoffice"})
	require.Equal(t, http.StatusOK, w.Code)
	var promoted models.User
	decode(t, w, &promoted)
	assert.Equal(t, models.RoleBackoffice, promoted.Role)

	w = doRequest(t, router, http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	decode(t, w, &users)
	assert.Len(t, users, 4)

	w = doRequest(t, router, http.MethodGet, "/users", acme.Tokens[models.RoleFrontdesk], nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateRoleIsTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	acme := seedCompany(t, db)
	other := seedCompany(t, db)
	router := setupUserRouter(db)

	var foreign models.User
	require.NoError(t, db.Where("company_id = ? AND role = ?", other.CompanyID, models.RoleFrontdesk).First(&foreign).Error)

	w := doRequest(t, router, http.MethodPut, "/users/"+foreign.ID, acme.Tokens[models.RoleAdmin], gin.H{"role": "admin"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
