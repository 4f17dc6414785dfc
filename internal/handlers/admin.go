package handlers

import (
	"errors"
	"net/http"

	"shopfront/internal/models"
	"shopfront/internal/services"
	"shopfront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// AuthMiddleware sends visitors without an admin login to /admin/login.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.FromContext(c).IsAdmin() {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) AdminLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", page(c, "Admin Login", nil))
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), form.Username, form.Password, c.ClientIP())
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.HTML(http.StatusOK, "admin_login.html", page(c, "Admin Login", gin.H{
			"username": form.Username,
			"error":    "Please try again!",
		}))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	// Yetki değişince oturum kimliği yenilenir
	if err := session.Renew(c); err != nil {
		h.fail(c, err)
		return
	}
	id := user.ID
	session.FromContext(c).AdminUserID = &id
	c.Redirect(http.StatusSeeOther, "/admin/")
}

func (h *Handler) AdminLogout(c *gin.Context) {
	if err := session.Renew(c); err != nil {
		h.fail(c, err)
		return
	}
	session.FromContext(c).AdminUserID = nil
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// AdminPage, admin ana sayfasını ve ürün listesini gösterir.
func (h *Handler) AdminPage(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := h.catalog.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	orderCount, err := h.checkout.OrderCount(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "admin_index.html", page(c, "Admin", gin.H{
		"products":   products,
		"orderCount": orderCount,
	}))
}

// CreateProductPage renders an empty product form.
func (h *Handler) CreateProductPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_product_form.html", page(c, "Create product", gin.H{
		"form": models.ProductForm{},
	}))
}

// EditProductPage renders the product form filled with the stored values.
func (h *Handler) EditProductPage(c *gin.Context) {
	product, err := h.catalog.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "admin_product_form.html", page(c, "Edit product", gin.H{
		"form": models.ProductForm{
			ProductID: product.IDString(),
			Name:      product.Name,
			Price:     product.Price.StringFixed(2),
		},
	}))
}

// SaveProduct, ürünü oluşturur veya günceller.
func (h *Handler) SaveProduct(c *gin.Context) {
	var form models.ProductForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.fail(c, err)
		return
	}

	_, err := h.catalog.Save(c.Request.Context(), form)
	if errors.Is(err, services.ErrValidation) {
		c.HTML(http.StatusBadRequest, "admin_product_form.html", page(c, "Save product", gin.H{
			"form":  form,
			"error": validationMessage(err),
		}))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/")
}

// DeleteProduct, belirli bir ürünü siler.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.PostForm("product_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/")
}
