package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/carrier"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/crud"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/service"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/health"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/middleware"
)

// Services bundles everything the router serves.
type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Addresses    *service.AddressService
	Products     *service.ProductService
	Carts        *service.CartService
	Orders       *service.OrderService
	Vouchers     *service.VoucherService
	Reviews      *service.ReviewService
	Shipments    *service.ShipmentService
	Returns      *service.ReturnRequestService
	Media        *service.MediaService
	Colors       *crud.Service[domain.Color]
	Categories   *crud.Service[domain.Category]
	ShopOffices  *crud.Service[domain.ShopOffice]
	SizeProfiles *crud.Service[domain.SizeProfile]
	Carrier      *carrier.Client
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	svcs Services,
	tokens middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("shop-api"))
	r.Use(middleware.Tracing("shop-api"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	authed := middleware.Auth(tokens)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	sellers := middleware.RequireRole(domain.RoleAdmin, domain.RoleShop)

	authHandler := NewAuthHandler(svcs.Auth, logger)
	userHandler := NewUserHandler(svcs.Users, logger)
	addressHandler := NewAddressHandler(svcs.Addresses, logger)
	productHandler := NewProductHandler(svcs.Products, logger)
	cartHandler := NewCartHandler(svcs.Carts, logger)
	orderHandler := NewOrderHandler(svcs.Orders, logger)
	voucherHandler := NewVoucherHandler(svcs.Vouchers, logger)
	reviewHandler := NewReviewHandler(svcs.Reviews, logger)
	shipmentHandler := NewShipmentHandler(svcs.Shipments, logger)
	returnHandler := NewReturnRequestHandler(svcs.Returns, logger)
	mediaHandler := NewMediaHandler(svcs.Media, logger)
	colorHandler := NewColorHandler(svcs.Colors, logger)
	categoryHandler := NewCategoryHandler(svcs.Categories, logger)
	officeHandler := NewShopOfficeHandler(svcs.ShopOffices, logger)
	sizeProfileHandler := NewSizeProfileHandler(svcs.SizeProfiles, logger)
	carrierHandler := NewCarrierHandler(svcs.Carrier, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Route("/auth", func(r chi.Router) {
			// Per-IP throttle on credential endpoints.
			r.Use(middleware.RateLimit(5, 10, logger))

			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/check-code", authHandler.CheckCode)
			r.Post("/retry-active", authHandler.RetryActive)
			r.Post("/retry-password", authHandler.RetryPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Get("/profile", authHandler.Profile)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authed)

			r.Put("/me", userHandler.UpdateProfile)
			r.Post("/me/avatar", userHandler.UploadAvatar)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", userHandler.ListUsers)
				r.Get("/{id}", userHandler.GetUser)
				r.Put("/{id}/role", userHandler.UpdateRole)
				r.Delete("/{id}", userHandler.DeleteUser)
			})
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Use(authed)

			r.Post("/", addressHandler.CreateAddress)
			r.Get("/", addressHandler.ListAddresses)
			r.Get("/{id}", addressHandler.GetAddress)
			r.Put("/{id}", addressHandler.UpdateAddress)
			r.Delete("/{id}", addressHandler.DeleteAddress)
		})

		r.Route("/products", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.CacheControl(60))
				r.Get("/", productHandler.ListProducts)
				r.Get("/{idOrSlug}", productHandler.GetProduct)
			})

			r.Group(func(r chi.Router) {
				r.Use(authed, sellers)
				r.Post("/", productHandler.CreateProduct)
				r.Put("/{id}", productHandler.UpdateProduct)
				r.Delete("/{id}", productHandler.DeleteProduct)
				r.Post("/{id}/variants", productHandler.CreateVariant)
				r.Put("/{id}/variants/{variantID}", productHandler.UpdateVariant)
				r.Delete("/{id}/variants/{variantID}", productHandler.DeleteVariant)
			})

			r.Route("/{productID}/reviews", func(r chi.Router) {
				r.Get("/", reviewHandler.ListReviews)
				r.With(authed).Post("/", reviewHandler.CreateReview)
			})
		})

		r.With(authed).Delete("/reviews/{id}", reviewHandler.DeleteReview)

		r.Route("/carts", func(r chi.Router) {
			r.Use(authed)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{id}", cartHandler.UpdateItem)
			r.Delete("/items/{id}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authed)

			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{id}", orderHandler.GetOrder)
			r.Post("/{id}/cancel", orderHandler.CancelOrder)
			r.With(sellers).Put("/{id}/status", orderHandler.UpdateOrderStatus)
		})

		r.Route("/vouchers", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.CacheControl(60))
				r.Get("/", voucherHandler.ListVouchers)
				r.Get("/{id}", voucherHandler.GetVoucher)
			})

			r.Group(func(r chi.Router) {
				r.Use(authed, adminOnly)
				r.Post("/", voucherHandler.CreateVoucher)
				r.Put("/{id}", voucherHandler.UpdateVoucher)
				r.Delete("/{id}", voucherHandler.DeleteVoucher)
			})
		})

		r.Route("/user-vouchers", func(r chi.Router) {
			r.Use(authed)

			r.Post("/", voucherHandler.ClaimVoucher)
			r.Get("/", voucherHandler.ListUserVouchers)
		})

		r.Route("/shipments", func(r chi.Router) {
			r.Use(authed, sellers)

			r.Post("/", shipmentHandler.CreateShipments)
			r.Get("/", shipmentHandler.ListShipments)
			r.Get("/{id}", shipmentHandler.GetShipment)
			r.Put("/{id}/status", shipmentHandler.UpdateShipmentStatus)
			r.Get("/{id}/track", shipmentHandler.TrackShipment)
			r.Post("/{id}/cancel", shipmentHandler.CancelShipment)
		})

		r.Route("/shipping", func(r chi.Router) {
			r.Use(middleware.CacheControl(3600))

			r.Get("/provinces", carrierHandler.ListProvinces)
			r.Get("/districts", carrierHandler.ListDistricts)
			r.Get("/wards", carrierHandler.ListWards)
			r.Post("/fee", carrierHandler.QuoteFee)
			r.Post("/preview", carrierHandler.PreviewOrder)
		})

		r.Route("/return-requests", func(r chi.Router) {
			r.Use(authed)

			r.Post("/", returnHandler.CreateReturn)
			r.Get("/", returnHandler.ListReturns)
			r.Get("/{id}", returnHandler.GetReturn)
			r.With(adminOnly).Put("/{id}/status", returnHandler.UpdateReturnStatus)
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", mediaHandler.ListMedia)

			r.Group(func(r chi.Router) {
				r.Use(authed, sellers)
				r.Post("/", mediaHandler.UploadMedia)
				r.Delete("/{id}", mediaHandler.DeleteMedia)
			})
		})

		r.Route("/colors", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.CacheControl(3600))
				r.Get("/", colorHandler.ListColors)
				r.Get("/{id}", colorHandler.GetColor)
			})

			r.Group(func(r chi.Router) {
				r.Use(authed, adminOnly)
				r.Post("/", colorHandler.CreateColor)
				r.Put("/{id}", colorHandler.UpdateColor)
				r.Delete("/{id}", colorHandler.DeleteColor)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.CacheControl(3600))
				r.Get("/", categoryHandler.ListCategories)
				r.Get("/{id}", categoryHandler.GetCategory)
			})

			r.Group(func(r chi.Router) {
				r.Use(authed, adminOnly)
				r.Post("/", categoryHandler.CreateCategory)
				r.Put("/{id}", categoryHandler.UpdateCategory)
				r.Delete("/{id}", categoryHandler.DeleteCategory)
			})
		})

		r.Route("/shop-offices", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.CacheControl(3600))
				r.Get("/", officeHandler.ListShopOffices)
				r.Get("/{id}", officeHandler.GetShopOffice)
			})

			r.Group(func(r chi.Router) {
				r.Use(authed, sellers)
				r.Post("/", officeHandler.CreateShopOffice)
				r.Put("/{id}", officeHandler.UpdateShopOffice)
				r.Delete("/{id}", officeHandler.DeleteShopOffice)
			})
		})

		r.Route("/size-profiles", func(r chi.Router) {
			r.Use(authed)

			r.Post("/", sizeProfileHandler.CreateSizeProfile)
			r.Get("/", sizeProfileHandler.ListSizeProfiles)
			r.Get("/{id}", sizeProfileHandler.GetSizeProfile)
			r.Put("/{id}", sizeProfileHandler.UpdateSizeProfile)
			r.Delete("/{id}", sizeProfileHandler.DeleteSizeProfile)
		})
	})

	return r
}
