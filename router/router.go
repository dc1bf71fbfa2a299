package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/config"
	"github.com/yeremiapane/tablesession-api/controllers"
	"github.com/yeremiapane/tablesession-api/middlewares"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.App.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	tokens := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	timeout := cfg.Database.Timeout

	userCtrl := controllers.NewUserController(services.NewTenantService(db, timeout, tokens))
	tableCtrl := controllers.NewTableController(services.NewTableService(db, timeout))
	menuCtrl := controllers.NewMenuController(services.NewMenuService(db, timeout))
	sessionCtrl := controllers.NewTableSessionController(services.NewSessionService(db, timeout))
	orderCtrl := controllers.NewOrderController(services.NewOrderService(db, timeout))
	adminCtrl := controllers.NewAdminController(services.NewReportService(db, timeout))

	r.GET("/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "ok", gin.H{"status": "up"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")

	// login/register are rate limited per client IP
	authLimiter := middlewares.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateEvery)
	public := api.Group("/auth")
	public.Use(authLimiter.RateLimit())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	api.GET("/public/companies/:company_id/menu-items", menuCtrl.GetPublicMenu)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware(tokens))

	auth.GET("/auth/me", userCtrl.Me)

	// MENU
	auth.GET("/menu-items", middlewares.RequireOperation(services.OpMenuList), menuCtrl.GetAllMenus)
	auth.POST("/menu-items", middlewares.RequireOperation(services.OpMenuCreate), menuCtrl.CreateMenu)
	auth.PUT("/menu-items/:id", middlewares.RequireOperation(services.OpMenuUpdate), menuCtrl.UpdateMenu)
	auth.DELETE("/menu-items/:id", middlewares.RequireOperation(services.OpMenuDelete), menuCtrl.DeleteMenu)

	// TABLE SESSIONS (frontdesk/admin)
	auth.POST("/table-sessions", middlewares.RequireOperation(services.OpSessionOpen), sessionCtrl.OpenSession)
	auth.GET("/table-sessions/:id", middlewares.RequireOperation(services.OpSessionGet), sessionCtrl.GetSession)
	auth.POST("/table-sessions/:id/close", middlewares.RequireOperation(services.OpSessionClose), sessionCtrl.CloseSession)
	auth.POST("/table-sessions/:id/orders", middlewares.RequireOperation(services.OpOrderAdd), orderCtrl.AddOrder)
	auth.GET("/orders/:id/history", middlewares.RequireOperation(services.OpOrderHistory), orderCtrl.GetOrderHistory)

	// BACKOFFICE (backoffice/admin)
	backoffice := auth.Group("/backoffice")
	{
		backoffice.GET("/table-sessions", middlewares.RequireOperation(services.OpSessionListActive), sessionCtrl.GetActiveSessions)
		backoffice.PUT("/orders/:id/status", middlewares.RequireOperation(services.OpOrderUpdateStatus), orderCtrl.UpdateOrderStatus)
	}

	// ADMIN
	admin := auth.Group("/admin")
	{
		admin.GET("/tables", middlewares.RequireOperation(services.OpTableList), tableCtrl.GetAllTables)
		admin.POST("/tables", middlewares.RequireOperation(services.OpTableCreate), tableCtrl.CreateTable)
		admin.PUT("/tables/:id", middlewares.RequireOperation(services.OpTableUpdate), tableCtrl.UpdateTable)
		admin.DELETE("/tables/:id", middlewares.RequireOperation(services.OpTableDelete), tableCtrl.DeleteTable)

		admin.GET("/users", middlewares.RequireOperation(services.OpUserList), userCtrl.ListUsers)
		admin.POST("/users", middlewares.RequireOperation(services.OpUserCreate), userCtrl.CreateUser)
		admin.PUT("/users/:id", middlewares.RequireOperation(services.OpUserUpdateRole), userCtrl.UpdateUserRole)

		admin.GET("/orders", middlewares.RequireOperation(services.OpReportOrders), adminCtrl.GetAllOrders)
		admin.GET("/summary", middlewares.RequireOperation(services.OpReportSummary), adminCtrl.GetDailySummary)
		admin.GET("/summary/pdf", middlewares.RequireOperation(services.OpReportSummary), adminCtrl.ExportPDF)
	}

	return r
}
