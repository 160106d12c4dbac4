package main

import (
	"log"

	"github.com/Anantmishra121/learningedgeBackend/config"
	"github.com/Anantmishra121/learningedgeBackend/controllers"
	"github.com/Anantmishra121/learningedgeBackend/events"
	"github.com/Anantmishra121/learningedgeBackend/media"
	"github.com/Anantmishra121/learningedgeBackend/notify"
	"github.com/Anantmishra121/learningedgeBackend/payment"
	"github.com/Anantmishra121/learningedgeBackend/routes"
	"github.com/Anantmishra121/learningedgeBackend/services"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	if err := cfg.Validate(); err != nil {
		utils.LogError("Invalid config: %v", err)
		log.Fatal("Invalid config:", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.LogError("Failed to initialize database: %v", err)
		log.Fatal("Failed to initialize database:", err)
	}

	notifier := newNotifier(cfg)
	store := newMediaStore(cfg)

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			utils.LogError("Failed to close event publisher: %v", err)
		}
	}()

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout)

	tracker := services.NewProgressTracker(db)
	enrollment := services.NewEnrollmentEngine(db, tracker)
	ledger := services.NewLedgerRecorder(db)
	checkout := services.NewCheckoutService(db, gateway, ledger, enrollment, notifier, publisher, services.CheckoutConfig{
		KeySecret:      cfg.RazorpayKeySecret,
		Currency:       cfg.Currency,
		GatewayTimeout: cfg.GatewayTimeout,
		NotifyTimeout:  cfg.OutboundTimeout,
		StepTimeout:    cfg.OutboundTimeout,
	})

	ctrl := &controllers.Controller{
		DB:         db,
		Config:     cfg,
		Checkout:   checkout,
		Ledger:     ledger,
		Enrollment: enrollment,
		Progress:   tracker,
		Notifier:   notifier,
		Media:      store,
	}

	// Create sample admin
	if err := ctrl.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Create default category if none exists
	if err := ctrl.CreateDefaultCategory(); err != nil {
		utils.LogError("Failed to create default category: %v", err)
		log.Fatal("Failed to create default category:", err)
	}

	router := routes.SetupRouter(ctrl)

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}

// newNotifier picks the mail transport named by MAIL_PROVIDER
func newNotifier(cfg *config.Config) notify.Notifier {
	from := notify.Sender{Name: utils.AppName, Address: cfg.MailFrom}
	if cfg.MailProvider == "sendgrid" {
		utils.LogInfo("Sending mail through SendGrid")
		return notify.NewSendGridNotifier(cfg.SendGridAPIKey, from)
	}
	utils.LogInfo("Sending mail through SMTP host %q", cfg.MailHost)
	return notify.NewSMTPNotifier(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, from)
}

// newMediaStore uses Cloudinary when configured and local disk otherwise
func newMediaStore(cfg *config.Config) media.Store {
	if cfg.CloudinaryEnabled() {
		utils.LogInfo("Storing media on Cloudinary cloud %s", cfg.CloudinaryCloudName)
		return media.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.OutboundTimeout)
	}
	utils.LogInfo("Storing media under %s", cfg.UploadDir)
	return media.NewLocalStore(cfg.UploadDir, utils.LocalMediaPrefix)
}
