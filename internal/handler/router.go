package handler

import (
	"artisan-market/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig wires services into the HTTP surface
type RouterConfig struct {
	Regions     RegionService
	Villages    VillageService
	Vendors     VendorService
	Users       UserService
	Assignments AssignmentService
	Auth        Authenticator

	// Directory, when set, serves the region and village listings
	Directory RegionDirectory
	DB        Pinger

	JWTSecret   []byte
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	regionHandler := NewRegionHandler(cfg.Regions, logger)
	villageHandler := NewVillageHandler(cfg.Villages, logger)
	vendorHandler := NewVendorHandler(cfg.Vendors, logger)
	userHandler := NewUserHandler(cfg.Users, logger)
	assignmentHandler := NewAssignmentHandler(cfg.Assignments, logger)
	authHandler := NewAuthHandler(cfg.Auth, cfg.Users, logger)

	if cfg.DB != nil {
		router.GET("/health", NewHealthHandler(cfg.DB, logger).Health)
	}

	api := router.Group("/api")

	// Region listings come from the directory when one is configured
	listRegions, listRegionVillages := regionHandler.GetRegions, regionHandler.GetRegionVillages
	if cfg.Directory != nil {
		directoryHandler := NewDirectoryHandler(cfg.Directory, logger)
		listRegions, listRegionVillages = directoryHandler.GetRegions, directoryHandler.GetRegionVillages
	}

	api.POST("/regions", regionHandler.CreateRegion)
	api.GET("/regions", listRegions)
	api.GET("/regions/:id", regionHandler.GetRegion)
	api.PUT("/regions/:id", regionHandler.UpdateRegion)
	api.DELETE("/regions/:id", regionHandler.DeleteRegion)
	api.GET("/regions/:id/villages", listRegionVillages)

	api.POST("/villages", villageHandler.CreateVillage)
	api.GET("/villages", villageHandler.GetVillages)
	api.GET("/villages/:id", villageHandler.GetVillage)
	api.PUT("/villages/:id", villageHandler.UpdateVillage)
	api.DELETE("/villages/:id", villageHandler.DeleteVillage)
	api.GET("/villages/:id/vendors", villageHandler.GetVillageVendors)

	api.POST("/vendors", vendorHandler.CreateVendor)
	api.GET("/vendors", vendorHandler.GetVendors)
	api.GET("/vendors/:id", vendorHandler.GetVendor)
	api.PUT("/vendors/:id", vendorHandler.UpdateVendor)
	api.DELETE("/vendors/:id", vendorHandler.DeleteVendor)

	// Users are addressed by phone, with surrogate-id routes under /id
	api.POST("/users", userHandler.CreateUser)
	api.GET("/users", userHandler.GetUsers)
	api.PUT("/users", userHandler.UpdateUserByPhone)
	api.GET("/users/:phone", userHandler.GetUserByPhone)
	api.DELETE("/users/:phone", userHandler.DeleteUserByPhone)
	api.GET("/users/id/:id", userHandler.GetUser)
	api.PUT("/users/id/:id", userHandler.UpdateUser)
	api.DELETE("/users/id/:id", userHandler.DeleteUser)

	api.POST("/assignments", assignmentHandler.CreateAssignment)
	api.GET("/assignments", assignmentHandler.GetAssignments)
	api.GET("/assignments/user/:userId", assignmentHandler.GetUserAssignments)
	api.GET("/assignments/:id", assignmentHandler.GetAssignment)
	api.PUT("/assignments/:id", assignmentHandler.UpdateAssignment)
	api.DELETE("/assignments/:id", assignmentHandler.DeleteAssignment)

	api.POST("/auth/login", authHandler.Login)
	protected := api.Group("/auth")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/me", authHandler.Me)
	}

	return router
}
