package handlers

import (
	"net/http"
	"time"

	"shopfront/internal/obs"
	"shopfront/internal/session"
	"shopfront/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ShopPages lists the page templates of the shop.
var ShopPages = []string{
	"index.html",
	"view_product.html",
	"checkout.html",
	"complete.html",
	"404.html",
	"error.html",
	"admin_index.html",
	"admin_login.html",
	"admin_product_form.html",
}

// RouterConfig holds what the router needs besides the handler.
type RouterConfig struct {
	Sessions       session.Store
	SessionOptions session.Options
	// CORSOrigins may call the add-to-cart endpoint from other sites. Empty disables CORS.
	CORSOrigins []string
}

// NewRouter builds the shop engine with its middleware and routes.
func NewRouter(h *Handler, cfg RouterConfig) (*gin.Engine, error) {
	renderer, err := LoadTemplates(web.Templates, "templates", TemplateFuncs, ShopPages...)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(obs.GinLogger())
	r.Use(gin.Recovery())
	r.Use(session.Middleware(cfg.Sessions, cfg.SessionOptions))

	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		return nil, err
	}
	r.HTMLRender = renderer
	r.NoRoute(h.NotFound)

	addToCart := []gin.HandlerFunc{h.AddToCart}
	if len(cfg.CORSOrigins) > 0 {
		corsMW := cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		})
		addToCart = append([]gin.HandlerFunc{corsMW}, addToCart...)
		r.OPTIONS("/add-product-to-cart", corsMW)
	}

	// Admin routes
	r.GET("/admin", func(c *gin.Context) { c.Redirect(http.StatusMovedPermanently, "/admin/") })
	admin := r.Group("/admin")
	{
		admin.GET("/login", h.AdminLoginPage)
		admin.POST("/login", h.AdminLogin)
		admin.GET("/logout", h.AdminLogout)

		protected := admin.Group("", h.AuthMiddleware())
		protected.GET("/", h.AdminPage)
		protected.GET("/create-product", h.CreateProductPage)
		protected.GET("/:id", h.EditProductPage)
		protected.POST("/save-product", h.SaveProduct)
		protected.POST("/delete-product", h.DeleteProduct)
	}

	// Shop routes
	r.GET("/", h.HomePage)
	r.POST("/add-product-to-cart", addToCart...)
	r.GET("/checkout", h.CheckoutPage)
	r.POST("/checkout", h.HandleCheckout)
	r.GET("/complete", h.CompletePage)
	r.GET("/:product_name", h.ViewProduct)

	return r, nil
}
