// Package server assembles the HTTP API: services, handlers, middleware and
// routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"payday/internal/handlers"
	"payday/internal/middleware"
	"payday/internal/services"
)

// Options configures NewRouter.
type Options struct {
	DB *gorm.DB
	// Jobs runs the scheduled jobs behind /internal/cron. Nil disables the routes.
	Jobs       handlers.JobRunner
	CronAPIKey string
	// Swagger serves the API documentation under /swagger.
	Swagger bool
}

// NewRouter builds the gin engine serving the API.
func NewRouter(opts Options) *gin.Engine {
	db := opts.DB

	// Services
	householdService := services.NewHouseholdService(db)
	incomeService := services.NewIncomeSourceService(db)
	cycleService := services.NewPayCycleService(db)
	seedService := services.NewSeedService(db)
	potService := services.NewPotService(db)
	repaymentService := services.NewRepaymentService(db)
	forecastService := services.NewForecastService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	householdHandler := handlers.NewHouseholdHandler(householdService, auditService)
	incomeHandler := handlers.NewIncomeSourceHandler(incomeService, auditService)
	cycleHandler := handlers.NewPayCycleHandler(cycleService, auditService)
	seedHandler := handlers.NewSeedHandler(seedService, auditService)
	potHandler := handlers.NewPotHandler(potService, auditService)
	repaymentHandler := handlers.NewRepaymentHandler(repaymentService, auditService)
	forecastHandler := handlers.NewForecastHandler(forecastService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.Use(middleware.ResolveHousehold(func(userID string) (string, error) {
		household, err := householdService.GetHouseholdForUser(userID)
		if err != nil {
			return "", err
		}
		return household.ID, nil
	}))

	household := protected.Group("/household")
	household.POST("", householdHandler.CreateHousehold)
	household.GET("", householdHandler.GetHousehold)
	household.PUT("", householdHandler.UpdateHousehold)
	household.PUT("/partner", householdHandler.AddPartner)
	household.DELETE("/partner", householdHandler.RemovePartner)

	income := protected.Group("/income-sources")
	income.POST("", incomeHandler.CreateIncomeSource)
	income.GET("", incomeHandler.ListIncomeSources)
	income.GET("/:id", incomeHandler.GetIncomeSource)
	income.PUT("/:id", incomeHandler.UpdateIncomeSource)
	income.DELETE("/:id", incomeHandler.DeactivateIncomeSource)

	cycles := protected.Group("/paycycles")
	cycles.POST("/start", cycleHandler.StartFirstCycle)
	cycles.GET("", cycleHandler.ListCycles)
	cycles.GET("/current", cycleHandler.GetCurrentCycle)
	cycles.GET("/:id", cycleHandler.GetCycle)
	cycles.POST("/:id/next", cycleHandler.CreateNextCycle)
	cycles.POST("/:id/resync", cycleHandler.ResyncDraft)
	cycles.POST("/:id/close", cycleHandler.CloseCycle)
	cycles.POST("/:id/unlock", cycleHandler.UnlockCycle)
	cycles.POST("/:id/complete", cycleHandler.CompleteCycle)
	cycles.POST("/:id/recalculate", cycleHandler.RecalculateAllocations)
	cycles.POST("/:id/mark-overdue", cycleHandler.MarkOverdueSeedsPaid)
	cycles.GET("/:id/income", cycleHandler.GetIncomeEvents)
	cycles.POST("/:id/seeds", seedHandler.CreateSeed)
	cycles.GET("/:id/seeds", seedHandler.ListSeeds)

	seeds := protected.Group("/seeds")
	seeds.GET("/:id", seedHandler.GetSeed)
	seeds.PUT("/:id", seedHandler.UpdateSeed)
	seeds.DELETE("/:id", seedHandler.DeleteSeed)
	seeds.PUT("/:id/paid", seedHandler.SetSeedPaid)

	pots := protected.Group("/pots")
	pots.POST("", potHandler.CreatePot)
	pots.GET("", potHandler.ListPots)
	pots.GET("/:id", potHandler.GetPot)
	pots.PUT("/:id", potHandler.UpdatePot)
	pots.DELETE("/:id", potHandler.DeletePot)
	pots.GET("/:id/forecast", forecastHandler.ForecastPot)

	repayments := protected.Group("/repayments")
	repayments.POST("", repaymentHandler.CreateRepayment)
	repayments.GET("", repaymentHandler.ListRepayments)
	repayments.GET("/:id", repaymentHandler.GetRepayment)
	repayments.PUT("/:id", repaymentHandler.UpdateRepayment)
	repayments.DELETE("/:id", repaymentHandler.DeleteRepayment)
	repayments.GET("/:id/forecast", forecastHandler.ForecastRepayment)

	protected.POST("/forecast/lock-in", forecastHandler.LockIn)

	if opts.Jobs != nil {
		cronHandler := handlers.NewCronHandler(opts.Jobs)
		cron := router.Group("/internal/cron")
		cron.Use(middleware.CronAuthMiddleware(opts.CronAPIKey))
		cron.POST("/switchover", cronHandler.Switchover)
		cron.POST("/payday-reminder", cronHandler.PaydayReminders)
	}

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
