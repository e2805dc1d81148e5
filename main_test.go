package main_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mainapp "horologe"
	"horologe/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerBootstrap(t *testing.T) {
	db, err := mainapp.OpenDatabase("file:main_test?mode=memory&cache=shared&_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, mainapp.Migrate(db))

	app, svcs := mainapp.NewApp(db, nil, "test_jwt_secret")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "Horologe"))

	// The wired services operate against the migrated schema.
	price, quantity := 124000.0, 12
	product, err := svcs.Products.CreateProduct(services.CreateProductInput{
		Name:         "Alpine Elegance",
		Description:  "Swiss craftsmanship",
		Price:        &price,
		ItemQuantity: &quantity,
		ImageURL:     "assets/images/alpine_elegance.png",
		ImageAltText: "Alpine Elegance watch",
		Categories:   []string{"Genesis"},
	})
	require.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/products/"+product.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
