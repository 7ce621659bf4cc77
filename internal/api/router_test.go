package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/udtn/catalog-api/internal/api/handler"
	"github.com/udtn/catalog-api/internal/core/domain"
	"github.com/udtn/catalog-api/internal/core/ports"
	"github.com/udtn/catalog-api/internal/infrastructure/security"
)

type stubAuthService struct{}

func (stubAuthService) Register(_ context.Context, email, _ string, role domain.Role) (*domain.User, error) {
	if role == "" {
		role = domain.RoleUser
	}
	return &domain.User{ID: "u1", Email: email, Role: role}, nil
}

func (stubAuthService) Login(context.Context, string, string) (string, error) {
	return "", domain.ErrInvalidCredentials
}

// recordingProductService notes which operations were reached.
type recordingProductService struct {
	calls []string
}

func (s *recordingProductService) Create(_ context.Context, in ports.CreateProductInput, _ string) (*domain.Product, error) {
	s.calls = append(s.calls, "create")
	return &domain.Product{ID: "p1", Name: in.Name}, nil
}

func (s *recordingProductService) List(context.Context, ports.ListProductsInput) (*ports.ProductPage, error) {
	s.calls = append(s.calls, "list")
	return &ports.ProductPage{Products: []*domain.Product{}}, nil
}

func (s *recordingProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	s.calls = append(s.calls, "get")
	return &domain.Product{ID: id}, nil
}

func (s *recordingProductService) Update(_ context.Context, id string, _ domain.ProductPatch) (*domain.Product, error) {
	s.calls = append(s.calls, "update")
	return &domain.Product{ID: id}, nil
}

func (s *recordingProductService) Delete(context.Context, string) error {
	s.calls = append(s.calls, "delete")
	return nil
}

type routerFixture struct {
	handler  http.Handler
	products *recordingProductService
	tokens   *security.TokenIssuer
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	tokens := security.NewTokenIssuer("test-secret", time.Hour, "catalog-api")
	products := &recordingProductService{}
	e := NewRouter(Deps{
		AuthService:    stubAuthService{},
		ProductService: products,
		TokenVerifier:  tokens,
		HealthChecks:   map[string]handler.Check{"mongodb": func(context.Context) error { return nil }},
		Logger:         zerolog.Nop(),
		Registry:       prometheus.NewRegistry(),
	})
	return &routerFixture{handler: e, products: products, tokens: tokens}
}

func (f *routerFixture) token(t *testing.T, role domain.Role) string {
	t.Helper()
	tok, err := f.tokens.Issue(domain.Identity{Email: string(role) + "@example.com", Subject: "id-" + string(role), Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_UserCannotDeleteProduct(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodDelete, "/products/p1", f.token(t, domain.RoleUser), "")

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.products.calls) != 0 {
		t.Fatalf("service must not be reached, got %v", f.products.calls)
	}
}

func TestRouter_AdminReachesCatalog(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodDelete, "/products/p1", f.token(t, domain.RoleAdmin), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.products.calls) != 1 || f.products.calls[0] != "delete" {
		t.Fatalf("expected delete to be reached, got %v", f.products.calls)
	}
}

func TestRouter_ProductRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		role   domain.Role
		body   string
		want   int
	}{
		{"user lists", http.MethodGet, "/products", domain.RoleUser, "", http.StatusOK},
		{"user gets", http.MethodGet, "/products/p1", domain.RoleUser, "", http.StatusOK},
		{"user cannot create", http.MethodPost, "/products", domain.RoleUser, `{"name":"a","description":"b","price":1,"stock":1}`, http.StatusForbidden},
		{"admin creates", http.MethodPost, "/products", domain.RoleAdmin, `{"name":"a","description":"b","price":1,"stock":1}`, http.StatusCreated},
		{"user cannot update", http.MethodPut, "/products/p1", domain.RoleUser, `{"stock":2}`, http.StatusForbidden},
		{"admin updates", http.MethodPut, "/products/p1", domain.RoleAdmin, `{"stock":2}`, http.StatusOK},
		{"admin create invalid", http.MethodPost, "/products", domain.RoleAdmin, `{"name":"a"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			rec := f.do(tt.method, tt.path, f.token(t, tt.role), tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_AnonymousAndBadTokens(t *testing.T) {
	f := newRouterFixture(t)

	if rec := f.do(http.MethodGet, "/products", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: expected 401, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/products", "garbage", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}

	other := security.NewTokenIssuer("other-secret", time.Hour, "catalog-api")
	forged, _ := other.Issue(domain.Identity{Email: "x@example.com", Subject: "x", Role: domain.RoleAdmin})
	if rec := f.do(http.MethodDelete, "/products/p1", forged, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: expected 401, got %d", rec.Code)
	}
	if len(f.products.calls) != 0 {
		t.Fatalf("service must not be reached, got %v", f.products.calls)
	}
}

func TestRouter_AuthRoutesArePublic(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/auth/register", "", `{"email":"a@b.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/auth/login", "", `{"email":"a@b.com","password":"secret1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login: expected 401, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] != "invalid credentials" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_RequestIDAndHealth(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header")
	}
}
