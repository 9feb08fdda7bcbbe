package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/franciscosanchezn/gin-tapas-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-tapas-api/internal/auth"
	"github.com/franciscosanchezn/gin-tapas-api/internal/config"
	"github.com/franciscosanchezn/gin-tapas-api/internal/controllers"
	"github.com/franciscosanchezn/gin-tapas-api/internal/database"
	"github.com/franciscosanchezn/gin-tapas-api/internal/images"
	"github.com/franciscosanchezn/gin-tapas-api/internal/middleware"
	"github.com/franciscosanchezn/gin-tapas-api/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// application holds everything the router needs
type application struct {
	config          *config.Config
	gate            *auth.Gate
	authController  *controllers.AuthController
	tapasController controllers.TapasController
	// uploadsDir is served under /uploads when images are stored locally
	uploadsDir string
}

// @title Tapas Menu API
// @version 1.0
// @description Admin API for a tapas restaurant menu: items, ordering and images
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /api/auth/login.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()
	applyLogLevel(configuration.LogLevel)

	// Initialize database connection
	db := setupDatabase(configuration)

	// Initialize image storage
	transfer, uploadsDir := setupImages(configuration)

	// Initialize services and controllers
	app := newApplication(configuration, db, transfer, uploadsDir)

	// Initialize Gin router
	if configuration.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(app)

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))
}

// applyLogLevel propagates LOG_LEVEL to the package loggers.
// An unset LOG_LEVEL keeps the level derived from APP_ENV.
func applyLogLevel(raw string) {
	if raw == "" {
		raw = config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")).String()
	}
	level, err := log.ParseLevel(raw)
	if err != nil {
		log.WithError(err).Warn("Invalid LOG_LEVEL, keeping environment default")
		return
	}
	log.SetLevel(level)
	middleware.SetLogLevel(level)
	controllers.SetLogLevel(level)
	services.SetLogLevel(level)
	images.SetLogLevel(level)
	database.SetLogLevel(level)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf)
	return conf
}

// setupDatabase opens the configured database, migrates the schema and seeds it on request
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))

	if conf.SeedDatabase {
		_, err := database.SeedTapas(db)
		checkPanicErr(err)
	}
	return db
}

// setupImages builds the object store selected by STORAGE_DRIVER.
// The returned directory is non-empty only for the local store.
func setupImages(conf *config.Config) (*images.Transfer, string) {
	options := images.Options{MaxWidth: conf.ImageMaxWidth, JPEGQuality: conf.ImageJPEGQuality}

	if conf.StorageDriver == "s3" {
		store, err := images.NewS3Store(images.S3Settings{
			Endpoint:  conf.S3Endpoint,
			Region:    conf.S3Region,
			Bucket:    conf.S3Bucket,
			AccessKey: conf.S3AccessKey,
			SecretKey: conf.S3SecretKey,
			UseSSL:    conf.S3UseSSL,
			PublicURL: conf.StoragePublicURL,
		})
		checkPanicErr(err)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		checkPanicErr(store.EnsureBucket(ctx))
		log.WithField("bucket", conf.S3Bucket).Info("Using S3 image storage")
		return images.NewTransfer(store, options), ""
	}

	publicURL := conf.StoragePublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://%s:%d/uploads", conf.Host, conf.Port)
	}
	store, err := images.NewLocalStore(conf.StorageLocalDir, publicURL)
	checkPanicErr(err)
	log.WithField("dir", store.Root()).Info("Using local image storage")
	return images.NewTransfer(store, options), store.Root()
}

// newApplication wires services and controllers around an open database and image transfer
func newApplication(conf *config.Config, db *gorm.DB, transfer services.ImageTransfer, uploadsDir string) *application {
	gate, err := auth.NewGate(auth.Settings{
		Password: conf.AuthPassword,
		Secret:   conf.AuthSecretKey,
		TTL:      conf.AuthTokenTTL,
	})
	checkPanicErr(err)

	tapasService := services.NewTapasService(db, transfer)
	return &application{
		config:          conf,
		gate:            gate,
		authController:  controllers.NewAuthController(gate, auth.NewLoginThrottle(), conf.IsProduction()),
		tapasController: controllers.NewTapasController(tapasService, conf.ImageMaxBytes),
		uploadsDir:      uploadsDir,
	}
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter(app *application) *gin.Engine {
	router := gin.New()
	// ClientIP keys the login throttle, so forwarded headers count only from listed proxies
	checkPanicErr(router.SetTrustedProxies(app.config.TrustedProxies))
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{app.config.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(router, app)
	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine, app *application) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	api := router.Group("/api")
	{
		authApi := api.Group("/auth")
		{
			authApi.POST("/login", app.authController.Login)
			authApi.POST("/logout", app.authController.Logout)
			authApi.GET("/status", app.authController.Status)
			authApi.POST("/verify", app.authController.Verify)
		}

		// Every menu operation requires an admin session
		tapasApi := api.Group("/tapas")
		tapasApi.Use(middleware.RequireSession(app.gate))
		{
			tapasApi.POST("", app.tapasController.CreateTapa)
			tapasApi.GET("/:category", app.tapasController.ListTapas)
			tapasApi.PUT("/:category/order", app.tapasController.ReorderTapas)
			tapasApi.GET("/id/:id", app.tapasController.GetTapaByID)
			tapasApi.PUT("/id/:id", app.tapasController.UpdateTapa)
			tapasApi.DELETE("/id/:id", app.tapasController.DeleteTapa)
		}
	}

	if app.uploadsDir != "" {
		router.Static("/uploads", app.uploadsDir)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-tapas-api",
	})
}
