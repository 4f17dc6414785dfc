package handlers

import (
	"errors"
	"net/http"
	"strings"

	"shopfront/internal/models"
	"shopfront/internal/obs"
	"shopfront/internal/services"
	"shopfront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Handler, HTTP isteklerini yönetir.
type Handler struct {
	catalog  *services.CatalogService
	cart     *services.CartService
	checkout *services.CheckoutService
	auth     *services.AuthService
}

// NewHandler, yeni bir Handler örneği oluşturur.
func NewHandler(catalog *services.CatalogService, cart *services.CartService, checkout *services.CheckoutService, auth *services.AuthService) *Handler {
	return &Handler{
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		auth:     auth,
	}
}

// page adds the values every shop page needs to data.
func page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["cartCount"] = session.FromContext(c).CartCount()
	return data
}

// validationMessage strips the sentinel prefix so only the user-facing part remains.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
}

// fail renders the 404 page for not-found errors and a generic 500 page otherwise.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, services.ErrNotFound) {
		c.HTML(http.StatusNotFound, "404.html", page(c, "Not Found", nil))
		return
	}
	obs.Logger.Error("request failed",
		zap.String("request_id", obs.RequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error.html", page(c, "Error", nil))
}

// NotFound renders the 404 page for unmatched routes.
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", page(c, "Not Found", nil))
}

// --- Shop Handlers ---

// HomePage, tüm ürünleri listeler.
func (h *Handler) HomePage(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", page(c, "Shop", gin.H{
		"products": products,
	}))
}

// ViewProduct, isme göre tek bir ürünü gösterir.
func (h *Handler) ViewProduct(c *gin.Context) {
	product, err := h.catalog.ByName(c.Request.Context(), c.Param("product_name"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "view_product.html", page(c, product.Name, gin.H{
		"product": product,
	}))
}

// AddToCart appends the posted product_id to the session cart.
// A missing id is not an error: the response reports success=false and the unchanged count.
func (h *Handler) AddToCart(c *gin.Context) {
	sess := session.FromContext(c)

	cart, added := h.cart.Add(sess.Cart, c.PostForm("product_id"))
	sess.Cart = cart

	c.JSON(http.StatusOK, models.AddToCartResponse{
		Success:   added,
		CartItems: sess.CartCount(),
	})
}

// CheckoutPage renders the aggregated cart and the email form.
func (h *Handler) CheckoutPage(c *gin.Context) {
	summary, err := h.checkout.View(c.Request.Context(), session.FromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "checkout.html", page(c, "Checkout", gin.H{
		"summary": summary,
	}))
}

// HandleCheckout persists the order and redirects to /complete.
func (h *Handler) HandleCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	sess := session.FromContext(c)

	// Content-Type ne olursa olsun form olarak okunur; eksik email doğrulama hatasıdır
	var form models.OrderForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.fail(c, err)
		return
	}

	_, err := h.checkout.Submit(ctx, sess, form.Email)
	if errors.Is(err, services.ErrValidation) {
		summary, viewErr := h.checkout.View(ctx, sess)
		if viewErr != nil {
			h.fail(c, viewErr)
			return
		}
		c.HTML(http.StatusBadRequest, "checkout.html", page(c, "Checkout", gin.H{
			"summary": summary,
			"email":   form.Email,
			"error":   validationMessage(err),
		}))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/complete")
}

// CompletePage shows the order just placed and empties the cart.
func (h *Handler) CompletePage(c *gin.Context) {
	sess := session.FromContext(c)

	order, err := h.checkout.Complete(c.Request.Context(), sess)
	if errors.Is(err, services.ErrNoPendingOrder) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "complete.html", page(c, "Order complete", gin.H{
		"order": order,
	}))
}
