package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	feedPath := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(feedPath, []byte(`[
		{"id":"p1","name":"Kurta","price":1999,"category":"clothing"},
		{"id":"p2","name":"Chai Mug","price":299,"category":"kitchen"}
	]`), 0o600))

	t.Setenv("SHOP_FEED_PATH", feedPath)
	t.Setenv("SHOP_API_URL", apiURL)
	t.Setenv("CART_STORE", "bolt")
	t.Setenv("CART_DB_PATH", filepath.Join(dir, "cart.db"))
	t.Setenv("SHOP_LOCALE", "en-US")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")
	return dir
}

func runShop(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	require.NoError(t, a.close())
	return out.String(), err
}

func TestShop_ListSorted(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	out, err := runShop(t, "list", "--sort", "price-asc")
	require.NoError(t, err)

	assert.Less(t, bytes.Index([]byte(out), []byte("Chai Mug")), bytes.Index([]byte(out), []byte("Kurta")))
	assert.Contains(t, out, "INR 1,999")
}

func TestShop_CartPersistsAcrossRuns(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	_, err := runShop(t, "add", "p1")
	require.NoError(t, err)
	_, err = runShop(t, "add", "p1")
	require.NoError(t, err)
	_, err = runShop(t, "inc", "p2")
	require.NoError(t, err)

	out, err := runShop(t, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Kurta")
	assert.Contains(t, out, "2 items")
	assert.Contains(t, out, "INR 3,998")

	_, err = runShop(t, "qty", "p1", "-2")
	require.NoError(t, err)
	out, err = runShop(t, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Cart is empty.")
}

func TestShop_AddUnknown(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	_, err := runShop(t, "add", "p9")
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

func TestShop_CheckoutEmpty(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	_, err := runShop(t, "checkout")
	assert.ErrorIs(t, err, usecase.ErrEmptyCart)
	assert.Equal(t, "Your cart is empty.", notice(err))
}

func TestShop_Checkout_DiscardsCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"url":"https://pay.example/cs_1"}`)
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)

	_, err := runShop(t, "add", "p2")
	require.NoError(t, err)

	out, err := runShop(t, "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "https://pay.example/cs_1")

	out, err = runShop(t, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Cart is empty.")
}

func TestShop_Checkout_Unreachable_KeepsCart(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	_, err := runShop(t, "add", "p2")
	require.NoError(t, err)

	_, err = runShop(t, "checkout")
	assert.ErrorIs(t, err, repo.ErrNetwork)
	assert.Equal(t, "Checkout error.", notice(err))

	out, err := runShop(t, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Chai Mug")
}

func TestShop_CorruptSnapshot_ClearRecovers(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	_, err := runShop(t, "add", "p1")
	require.NoError(t, err)

	a := &app{}
	require.NoError(t, a.setup(t.Context(), false))
	require.NoError(t, a.store.Save(t.Context(), a.cfg.CartKey, []byte("{broken")))
	require.NoError(t, a.close())

	_, err = runShop(t, "cart")
	assert.ErrorIs(t, err, usecase.ErrCorruptSnapshot)

	_, err = runShop(t, "clear")
	require.NoError(t, err)
	out, err := runShop(t, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Cart is empty.")
}

func TestNotice_Default(t *testing.T) {
	assert.Equal(t, "error: boom", notice(errors.New("boom")))
	assert.Equal(t, "Checkout failed.", notice(usecase.ErrCheckoutFailed))
}
