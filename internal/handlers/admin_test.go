package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"shopfront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminClient returns a client logged in as a freshly created admin.
func adminClient(t *testing.T, app *testApp) *client {
	t.Helper()
	_, err := app.auth.CreateAdmin(context.Background(), "admin", "admin")
	require.NoError(t, err)

	cl := app.client()
	w := cl.post("/admin/login", url.Values{"username": {"admin"}, "password": {"admin"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	return cl
}

func TestAdminIndex_RedirectsToLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.client().get("/admin/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")
}

func TestAdminLoginPage(t *testing.T) {
	app := newTestApp(t)

	w := app.client().get("/admin/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "please log in")
}

func TestAdminLogin_CorrectDetails(t *testing.T) {
	app := newTestApp(t)
	cl := adminClient(t, app)

	require.NotNil(t, cl.session().AdminUserID)

	w := cl.get("/admin/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to the admin")
}

func TestAdminLogin_RotatesSession(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	_, err := app.auth.CreateAdmin(ctx, "admin", "admin")
	require.NoError(t, err)
	p := app.product("Floss", "1.50")

	cl := app.client()
	cl.post("/add-product-to-cart", url.Values{"product_id": {p.IDString()}})
	before := cl.cookie.Value

	w := cl.post("/admin/login", url.Values{"username": {"admin"}, "password": {"admin"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotEqual(t, before, cl.cookie.Value)

	_, err = app.sessions.Load(ctx, before)
	assert.ErrorIs(t, err, session.ErrNotFound)

	s := cl.session()
	require.NotNil(t, s.AdminUserID)
	assert.Equal(t, []string{p.IDString()}, s.Cart)

	loggedIn := cl.cookie.Value
	cl.get("/admin/logout")
	assert.NotEqual(t, loggedIn, cl.cookie.Value)
	_, err = app.sessions.Load(ctx, loggedIn)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAdminIndex_ShowsOrderCount(t *testing.T) {
	app := newTestApp(t)
	cl := adminClient(t, app)
	p := app.product("Floss", "1.50")

	w := cl.get("/admin/")
	assert.Contains(t, w.Body.String(), "Orders placed: 0")

	shopper := app.client()
	shopper.setCart(p.ID)
	require.Equal(t, http.StatusSeeOther, shopper.post("/checkout", url.Values{"email": {"a@a.com"}}).Code)

	w = cl.get("/admin/")
	assert.Contains(t, w.Body.String(), "Orders placed: 1")
}

func TestAdminLogin_IncorrectDetails(t *testing.T) {
	app := newTestApp(t)
	_, err := app.auth.CreateAdmin(context.Background(), "admin", "admin")
	require.NoError(t, err)

	cl := app.client()
	w := cl.post("/admin/login", url.Values{"username": {"admin"}, "password": {"password"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please try again!")
	assert.Nil(t, cl.session().AdminUserID)
}

func TestAdminLogout(t *testing.T) {
	app := newTestApp(t)
	cl := adminClient(t, app)

	w := cl.get("/admin/logout")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = cl.get("/admin/")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminCreateProductForm(t *testing.T) {
	app := newTestApp(t)
	cl := adminClient(t, app)

	w := cl.get("/admin/create-product")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<form name="product_form"`)
}

func TestAdminEditProductForm(t *testing.T) {
	app := newTestApp(t)
	cl := adminClient(t, app)
	p := app.product("Floss", "1.50")

	w := cl.get("/admin/" + p.IDString())
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Floss")
	assert.Contains(t, body, "1.50")
	assert.Contains(t, body, `<form name="product_form"`)

	w = cl.get("/admin/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminSaveProduct_Create(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	cl := adminClient(t, app)

	w := cl.post("/admin/save-product", url.Values{"name": {"Floss"}, "price": {"1.50"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	all, err := app.db.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Floss", all[0].Name)
	assert.Equal(t, "1.50", all[0].Price.StringFixed(2))
}

func TestAdminSaveProduct_Edit(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	cl := adminClient(t, app)
	p := app.product("Toothbrush", "2.99")

	cl.post("/admin/save-product", url.Values{
		"product_id": {p.IDString()},
		"name":       {"Floss"},
		"price":      {"1.50"},
	})

	all, err := app.db.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Floss", all[0].Name)
	assert.Equal(t, "1.50", all[0].Price.StringFixed(2))
}

func TestAdminSaveProduct_Invalid(t *testing.T) {
	app := newTestApp(t)
	cl := adminClient(t, app)

	w := cl.post("/admin/save-product", url.Values{"name": {"Floss"}, "price": {"free"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "price must be a number")
}

func TestAdminDeleteProduct(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	cl := adminClient(t, app)
	p := app.product("Floss", "1.50")

	w := cl.post("/admin/delete-product", url.Values{"product_id": {p.IDString()}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	all, err := app.db.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	app := newTestApp(t)
	p := app.product("Floss", "1.50")
	cl := app.client()

	for _, path := range []string{"/admin/create-product", "/admin/" + p.IDString()} {
		w := cl.get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
	}

	w := cl.post("/admin/delete-product", url.Values{"product_id": {p.IDString()}})
	assert.Equal(t, http.StatusFound, w.Code)

	all, err := app.db.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
