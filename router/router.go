package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/config"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/controllers"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/pricing"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/services"
)

// Deps carries everything the route table needs. Verifier and Notifier may
// be nil or disabled; Catalog and Hub fall back to fresh defaults.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Catalog  *pricing.Catalog
	Verifier *services.RecaptchaVerifier
	Mailer   controllers.QuoteSender
	Notifier controllers.SubmissionNotifier
	Hub      *hub.Hub
}

func SetupRouter(d Deps) *gin.Engine {
	controllers.RegisterValidators()
	if d.Catalog == nil {
		d.Catalog = pricing.DefaultCatalog()
	}
	if d.Hub == nil {
		d.Hub = hub.New()
	}

	r := gin.New()
	r.Use(middlewares.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.Config.CORSOrigins))

	relayCtrl := controllers.NewRelayController(d.Mailer, d.Verifier, d.Config.Business.Email)
	publicCtrl := controllers.NewPublicController(d.DB, d.Catalog, d.Verifier, d.Config.RecaptchaRequired, d.Notifier)
	authCtrl := controllers.NewAuthController(d.DB)
	instantCtrl := controllers.NewInstantBookingController(d.DB, d.Hub)
	legacyCtrl := controllers.NewBookingController(d.DB)
	cleanerCtrl := controllers.NewCleanerController(d.DB, d.Hub)
	customerCtrl := controllers.NewCustomerController(d.DB)
	invoiceCtrl := controllers.NewInvoiceController(d.DB, d.Catalog, d.Config.Business, d.Hub)
	messageCtrl := controllers.NewContactMessageController(d.DB)
	activityCtrl := controllers.NewActivityLogController(d.DB)
	adminCtrl := controllers.NewAdminController(d.DB, d.Catalog.Currency)
	wsCtrl := controllers.NewWSController(d.Hub, d.Config.CORSOrigins)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	limiter := middlewares.NewRateLimiter(d.Config.RateLimitRPS, d.Config.RateLimitBurst)

	api := r.Group("/api")
	{
		api.GET("/pricing/catalog", publicCtrl.GetCatalog)
		api.POST("/quotes", publicCtrl.CreateQuote)
		api.GET("/instant-bookings/:reference", publicCtrl.LookupInstantBooking)
	}

	forms := api.Group("/")
	forms.Use(limiter.RateLimit())
	{
		forms.POST("/contact", publicCtrl.SubmitContact)
		forms.POST("/instant-bookings", publicCtrl.CreateInstantBooking)
		forms.POST("/bookings", publicCtrl.CreateBooking)

		// relay endpoints answer OPTIONS through the CORS middleware
		forms.POST("/send-quote-email", relayCtrl.SendQuoteEmail)
		forms.POST("/verify-recaptcha", relayCtrl.VerifyRecaptcha)
		for _, path := range []string{"/send-quote-email", "/verify-recaptcha"} {
			for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
				forms.Handle(method, path, relayCtrl.MethodNotAllowed)
			}
		}
	}

	login := r.Group("/admin")
	login.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		login.POST("/login", authCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	r.GET("/admin/ws", middlewares.WebSocketAuthMiddleware(), wsCtrl.DashboardSocket)

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	admin.Use(middlewares.ActivityLogger(d.DB))
	adminOnly := middlewares.RoleCheck(models.RoleAdmin)
	{
		admin.POST("/logout", authCtrl.Logout)
		admin.GET("/profile", authCtrl.GetProfile)

		admin.GET("/dashboard", adminCtrl.GetDashboardStats)
		admin.GET("/dashboard/revenue", adminCtrl.GetRevenue)
		admin.GET("/dashboard/revenue-chart.png", adminCtrl.GetRevenueChart)
		admin.GET("/reports/bookings.csv", middlewares.DownloadLogger("bookings_csv"), adminCtrl.ExportBookingsCSV)

		admin.GET("/instant-bookings", instantCtrl.ListBookings)
		admin.GET("/instant-bookings/:id", instantCtrl.GetBooking)
		admin.PUT("/instant-bookings/:id/status", instantCtrl.UpdateStatus)
		admin.PUT("/instant-bookings/:id/notes", instantCtrl.UpdateNotes)
		admin.POST("/instant-bookings/:id/assign", instantCtrl.AssignCleaner)
		admin.DELETE("/instant-bookings/:id", adminOnly, instantCtrl.DeleteBooking)

		admin.GET("/bookings", legacyCtrl.ListBookings)
		admin.GET("/bookings/:id", legacyCtrl.GetBooking)
		admin.PUT("/bookings/:id/status", legacyCtrl.UpdateStatus)
		admin.DELETE("/bookings/:id", adminOnly, legacyCtrl.DeleteBooking)

		admin.GET("/cleaners", cleanerCtrl.GetAllCleaners)
		admin.POST("/cleaners", cleanerCtrl.CreateCleaner)
		admin.GET("/cleaners/:id", cleanerCtrl.GetCleanerByID)
		admin.PUT("/cleaners/:id", cleanerCtrl.UpdateCleaner)
		admin.DELETE("/cleaners/:id", adminOnly, cleanerCtrl.DeleteCleaner)
		admin.GET("/cleaners/:id/assignments", cleanerCtrl.GetCleanerAssignments)

		admin.GET("/assignments", cleanerCtrl.ListAssignments)
		admin.PUT("/assignments/:id", cleanerCtrl.UpdateAssignment)

		admin.GET("/customers", customerCtrl.GetAllCustomers)
		admin.GET("/customers/:email", customerCtrl.GetCustomer)

		admin.GET("/invoices", invoiceCtrl.GetAllInvoices)
		admin.POST("/invoices", invoiceCtrl.CreateInvoice)
		admin.GET("/invoices/:id", invoiceCtrl.GetInvoiceByID)
		admin.PUT("/invoices/:id/status", invoiceCtrl.UpdateInvoiceStatus)
		admin.GET("/invoices/:id/pdf", middlewares.DownloadLogger("invoice_pdf"), invoiceCtrl.DownloadInvoicePDF)

		admin.GET("/contact-messages", messageCtrl.GetMessages)
		admin.PUT("/contact-messages/:id/status", messageCtrl.UpdateMessageStatus)
		admin.DELETE("/contact-messages/:id", adminOnly, messageCtrl.DeleteMessage)

		admin.GET("/activity-logs", adminOnly, activityCtrl.GetActivityLogs)
	}

	return r
}
