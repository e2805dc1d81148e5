package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"horologe/internal/handlers"
	"horologe/internal/middleware"
	"horologe/internal/models"
	"horologe/internal/repositories"
	"horologe/internal/services"
	"horologe/pkg/events"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "store.db") // SQLite file next to the binary
	viper.SetDefault("JWT_SECRET", "development-secret")
	viper.SetDefault("AMQP_URL", "") // empty disables event publishing
	viper.SetDefault("SEED_DATA", false)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := OpenDatabase(viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *events.Client
	if amqpURL := viper.GetString("AMQP_URL"); amqpURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: amqpURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	app, svcs := NewApp(db, mqClient, viper.GetString("JWT_SECRET"))

	// --- Seed the catalog (opt-in) ---
	if viper.GetBool("SEED_DATA") {
		seedCatalog(svcs)
	}

	// --- Consume catalog events (optional) ---
	if mqClient != nil {
		log.Println("Starting RabbitMQ consumer for catalog events...")
		err := mqClient.Consume(func(msg amqp.Delivery) error {
			log.Printf("Received catalog event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		})
		if err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Start HTTP server with graceful shutdown ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// OpenDatabase opens a gorm handle for the given DSN. A DSN that looks
// like a PostgreSQL connection string selects the postgres driver;
// anything else is treated as a SQLite file path. TranslateError is on
// so uniqueness and FK rejections surface as gorm sentinel errors.
func OpenDatabase(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	if !strings.Contains(dsn, "_foreign_keys") {
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on"
		} else {
			dsn += "?_foreign_keys=on"
		}
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}

// Migrate registers the explicit join table and migrates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Product{}, "Categories", &models.ProductCategory{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Category{}, "Products", &models.ProductCategory{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.Product{},
		&models.Category{},
		&models.ProductCategory{},
		&models.User{},
		&models.Order{},
		&models.OrderDetail{},
	)
}

// Services bundles the application services for wiring and seeding.
type Services struct {
	Products *services.ProductService
	Auth     *services.AuthService
	Orders   *services.OrderService
}

// NewServices wires repositories and services over one database handle.
// Every dependency is constructed here and passed down explicitly; there
// is no package-level application state.
func NewServices(db *gorm.DB, mqClient *events.Client, jwtSecret string) Services {
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}

	gateway := repositories.NewGORMGateway(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	return Services{
		Products: services.NewProductService(productRepo, categoryRepo, gateway, publisher),
		Auth:     services.NewAuthService(userRepo, gateway, publisher, jwtSecret),
		Orders:   services.NewOrderService(orderRepo, gateway, publisher),
	}
}

// NewApp builds the Fiber app with all routes registered.
func NewApp(db *gorm.DB, mqClient *events.Client, jwtSecret string) (*fiber.App, Services) {
	svcs := NewServices(db, mqClient, jwtSecret)

	productHandler := handlers.NewProductHandler(svcs.Products)
	authHandler := handlers.NewAuthHandler(svcs.Auth)
	orderHandler := handlers.NewOrderHandler(svcs.Orders)

	app := fiber.New()
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString("<h1>Horologe Catalog Server</h1>")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	productHandler.RegisterRoutes(app)
	authHandler.RegisterRoutes(app, middleware.AuthRequired(svcs.Auth))
	orderHandler.RegisterRoutes(app)

	return app, svcs
}

// seedCatalog populates the store with the demo watch catalog, a demo
// account and one order. Category names repeat across products on
// purpose: the resolver only ever creates each category once.
func seedCatalog(svcs Services) {
	type seedProduct struct {
		name       string
		price      float64
		quantity   int
		image      string
		imageAlt   string
		categories []string
	}

	watches := []seedProduct{
		{"Alpine Elegance", 124000, 12, "assets/images/alpine_elegance.png", "Sophisticated Alpine Elegance watch showcasing Swiss craftsmanship.", []string{"Genesis"}},
		{"Horologe Elegance Alpine", 98000, 7, "assets/images/horologe_elegance_alpine.png", "The Horologe Elegance Alpine watch blends tradition with alpine scenery.", []string{"Elite"}},
		{"Pastoral Reflection", 56000, 30, "assets/images/pastoral_reflection.png", "The Pastoral Reflection watch, where time meets the tranquility of nature.", []string{"Genesis"}},
		{"Urban Allegory", 87000, 15, "assets/images/urban_allegory.png", "Urban Allegory, a watch that embodies the spirit of the metropolis.", []string{"Elite"}},
		{"Haute Society", 156000, 3, "assets/images/haute_society.png", "Haute Society, the watch that epitomizes the zenith of luxury.", []string{"Genesis"}},
		{"Alpine Precision", 64000, 22, "assets/images/alpine_precision.png", "Alpine Precision, a watch that defines accuracy and Swiss elegance.", []string{"Elite"}},
		{"Alpine Enforcer", 112000, 9, "assets/images/alpine_enforcer.png", "The Alpine Enforcer watch, robustness and precision in one piece.", []string{"Genesis", "Elite"}},
		{"Urban Reflection", 73000, 18, "assets/images/urban_reflection.png", "Urban Reflection, the essence of city life on your wrist.", []string{"Genesis", "Elite"}},
		{"Velocity Visionary", 142000, 5, "assets/images/velocity_visionary.png", "Velocity Visionary, where speed and vision meet sophistication.", []string{"Genesis", "Elite"}},
	}

	var productIDs []string
	for _, w := range watches {
		price, quantity := w.price, w.quantity
		product, err := svcs.Products.CreateProduct(services.CreateProductInput{
			Name:         w.name,
			Description:  w.imageAlt,
			Price:        &price,
			ItemQuantity: &quantity,
			ImageURL:     w.image,
			ImageAltText: w.imageAlt,
			Categories:   w.categories,
		})
		if err != nil {
			log.Printf("Error seeding product %s: %v", w.name, err)
			continue
		}
		log.Printf("Seeded product: %s (ID: %s)", product.Name, product.ID)
		productIDs = append(productIDs, product.ID)
	}

	user, err := svcs.Auth.RegisterUser(services.RegisterInput{
		Username:        "demo",
		Email:           "demo@example.com",
		Password:        "demopass",
		ShippingAddress: "1 Clockmaker Lane",
		ShippingCity:    "Geneva",
		ShippingState:   "GE",
		ShippingZip:     "1201",
	})
	if err != nil {
		log.Printf("Error seeding demo user: %v", err)
		return
	}

	if len(productIDs) >= 2 {
		_, err = svcs.Orders.CreateOrder(user.ID, []services.OrderItemInput{
			{ProductID: productIDs[0], Quantity: 1},
			{ProductID: productIDs[1], Quantity: 2},
		})
		if err != nil {
			log.Printf("Error seeding demo order: %v", err)
		}
	}

	log.Println("Database seeded successfully!")
}
