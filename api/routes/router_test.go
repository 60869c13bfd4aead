package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	pkgAuth "github.com/nvalenzo/threadhaus-backend/pkg/auth"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type stubDocs struct{}

func (stubDocs) PutProduct(context.Context, gateway.ProductDoc) error  { return nil }
func (stubDocs) DeleteProduct(context.Context, string) error           { return nil }
func (stubDocs) ListProducts(context.Context, string) ([]gateway.ProductDoc, error) {
	return nil, nil
}

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "threadhaus",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})

	store := catalog.NewStore()
	catalogSvc, err := catalog.NewService(store, stubDocs{}, log)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	if _, err := catalogSvc.CreateProduct(context.Background(), uuid.New(), catalog.CreateProductInput{
		Name:     "Linen Shirt",
		Price:    decimal.NewFromInt(45),
		Category: enums.ProductCategoryTops,
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	return NewRouter(Dependencies{
		Config:   testConfig(),
		Logger:   log,
		Sessions: stubSessions{},
		Catalog:  catalogSvc,
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Threadhaus-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestPublicBrowseIsOpen(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/v1/products?categories=tops", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "Linen Shirt" {
		t.Fatalf("expected the seeded product, got %+v", envelope.Data)
	}
}

func TestPrivateRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/cart", "/api/v1/me", "/api/v1/checkout"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, rec.Code)
		}
	}
}

func TestSellerRoutesRequireSellerRole(t *testing.T) {
	router := newTestRouter(t)

	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleShopper,
		JTI:    "jti-router-test",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/seller/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for shopper on seller route, got %d", rec.Code)
	}
}

func TestUnknownSortKeyRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/v1/products?sort=bogus", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
