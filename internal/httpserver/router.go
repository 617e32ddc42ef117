package httpserver

import (
	"context"
	"log"

	"redmango-orders/internal/domain"
	ordersvc "redmango-orders/internal/service/order"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.OrderHeader, error)
	Get(ctx context.Context, id int64) (*domain.OrderHeader, error)
	List(ctx context.Context, f ordersvc.ListFilter) ([]domain.OrderHeader, int, error)
	UpdateStatus(ctx context.Context, id int64, in ordersvc.UpdateInput) (*domain.OrderHeader, error)
}

type paymentService interface {
	Reconcile(ctx context.Context, userID string) (*domain.Cart, error)
}

type cartService interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertItem(ctx context.Context, userID string, menuItemID int64, quantityDelta int) (*domain.Cart, error)
}

// Deps are the collaborators the router needs.
type Deps struct {
	OrderSvc   orderService
	PaymentSvc paymentService
	CartSvc    cartService
	JWTSecret  string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.ExposeHeaders = []string{"X-Pagination"}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	authed := router.Group("/", authMiddleware(deps.JWTSecret))
	authed.POST("/orders", h.createOrder)
	authed.GET("/orders", h.listOrders)
	authed.GET("/orders/:id", h.getOrder)
	authed.PUT("/orders/:id", requireStaff(), h.updateOrder)
	authed.POST("/payment-intents", h.createPaymentIntent)
	authed.GET("/carts/me", h.getCart)
	authed.POST("/carts/me/items", h.upsertCartItem)

	return router
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
