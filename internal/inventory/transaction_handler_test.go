package inventory

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp: Middleware'in locals'a koyduğu aktörü sabitleyip inventory
// route'larını bağlar.
func testApp(rec *ledger.Recorder, actor auth.Actor) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxActorKey, actor)
		return c.Next()
	})
	app.Post("/api/inventory", CreateTransactionHandler(rec))
	app.Get("/api/inventory", ListTransactionsHandler())
	return app
}

func franchiseAdminActor(fid uint) auth.Actor {
	return auth.Actor{UserID: 7, Name: "Bayi Admin", Role: models.RoleFranchiseAdmin, FranchiseID: &fid}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestCreateTransaction_RejectsNegativeCostPerUnit(t *testing.T) {
	store := ledger.NewMemoryStore()
	store.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "KHV-001", Name: "Kahve", Unit: "kg", Stock: 10})
	app := testApp(ledger.NewRecorder(store), franchiseAdminActor(1))

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/inventory",
		`{"productId": 1, "transactionType": "purchase", "quantity": 5, "costPerUnit": -12.5}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "costPerUnit negatif olamaz")

	// Doğrulama yazmadan önce durur
	assert.Equal(t, 10, store.CurrentStock(1))
	assert.Empty(t, store.EntriesForProduct(1, 1))
}

func TestCreateTransaction_ForeignFranchiseForbidden(t *testing.T) {
	store := ledger.NewMemoryStore()
	store.SeedProduct(models.Product{ID: 1, FranchiseID: 2, SKU: "KHV-001", Name: "Kahve", Unit: "kg", Stock: 10})
	app := testApp(ledger.NewRecorder(store), franchiseAdminActor(1))

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/inventory",
		`{"franchiseId": 2, "productId": 1, "transactionType": "purchase", "quantity": 5}`)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "erişim yetkiniz yok")

	// Yabancı bayinin defterine hiçbir kayıt düşmez
	assert.Equal(t, 10, store.CurrentStock(1))
	assert.Empty(t, store.EntriesForProduct(2, 1))
}

func TestListTransactions_ForeignFranchiseForbidden(t *testing.T) {
	store := ledger.NewMemoryStore()
	app := testApp(ledger.NewRecorder(store), franchiseAdminActor(1))

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/inventory?franchiseId=2", "")

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "erişim yetkiniz yok")
}
