package Routes

import (
	"AcuCare/Controllers"
	"AcuCare/Middleware"
	"AcuCare/Models"
	"AcuCare/OTP"
	"AcuCare/SSE"
	"AcuCare/Utils/Token"
	"AcuCare/Whatsapp"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func ConfigRoutes(router *gin.Engine, maker *Token.Maker, otpStore *OTP.Store) {
	// Gzip Compression
	router.Use(gzip.Gzip(gzip.BestSpeed))

	// Public routes
	public := router.Group("/api")
	{
		public.POST("/auth/send-otp", Controllers.SendOTP(otpStore))
		public.POST("/auth/verify-otp", Controllers.VerifyOTP(otpStore, maker))
		public.POST("/auth/login", Controllers.Login(maker))
		public.POST("/auth/register", Controllers.RegisterPatient)
		public.GET("/providers", Controllers.FetchProviders)
		public.GET("/services", Controllers.FetchServices)
	}

	// Authorized routes
	authorized := router.Group("/api")
	authorized.Use(Middleware.JwtAuthMiddleware(maker))
	authorized.Use(Middleware.RequireActiveUser())
	{
		// User-related routes
		authorized.GET("/user", Controllers.CurrentUser)
		authorized.POST("/fcm-token", Controllers.SaveFCM)

		// Booking-related routes
		authorized.POST("/bookings", Controllers.CreateBooking)
		authorized.GET("/bookings", Controllers.FetchBookings)
		authorized.GET("/bookings/:id", Controllers.GetBooking)
		authorized.PATCH("/bookings/:id/assign",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.AssignBooking)
		authorized.POST("/bookings/:id/cancel", Controllers.CancelBooking)

		// Session logging
		authorized.POST("/sessions/log",
			Middleware.RequireRoles(Models.RoleProvider, Models.RoleAdmin), Controllers.LogSession)

		// Patient-related routes
		authorized.GET("/patients",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.FetchPatients)
		authorized.POST("/patients/update",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.UpdatePatient)
		authorized.GET("/patients/:id/progress", Controllers.GetPatientProgress)
		authorized.GET("/patients/:id/packages", Controllers.FetchPatientPackages)

		// Package-related routes
		authorized.POST("/packages",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.CreatePackage)
		authorized.POST("/packages/mark-paid",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.MarkPackageAsPaid)
		authorized.POST("/packages/unmark-paid",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.UnmarkPackageAsPaid)
		authorized.POST("/services",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.AddService)

		// Provider-related routes
		authorized.POST("/providers/register",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.RegisterProvider)
		authorized.PATCH("/providers/:id/status",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.UpdateProviderStatus)
		authorized.PATCH("/providers/:id/commission-rate",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.SetCommissionRate)

		// Commission-related routes
		authorized.GET("/commissions", Controllers.FetchCommissions)
		authorized.PATCH("/commissions/:id/payout",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.AdvancePayout)
		authorized.POST("/commissions/export",
			Middleware.RequireRoles(Models.RoleAdmin), Controllers.ExportCommissions)

		// WhatsApp-related routes
		authorized.GET("/whatsapp/login",
			Middleware.RequireRoles(Models.RoleAdmin), Whatsapp.CheckLogin)
		authorized.GET("/whatsapp/qr",
			Middleware.RequireRoles(Models.RoleAdmin), Whatsapp.GetQRCode)

		// SSE (Server-Sent Events) route
		authorized.GET("/events", SSE.RequestSSE)
	}
}
