package handlers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/bimodwien/full-ecommerce-new/internal/config"
	"github.com/bimodwien/full-ecommerce-new/internal/http/handlers"
	"github.com/bimodwien/full-ecommerce-new/internal/repos"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{BaseURL: "http://test.local/api", JWTSecret: "test-secret"}
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg)
	requireUser := handlers.RequireUser(deps.Auth)
	requireSeller := handlers.RequireSeller(deps.Auth)

	api := app.Group("/api")
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Post("/auth/register", deps.AuthHandler.Register)

	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/image/:id", deps.ProductHandler.Image)
	products.Get("/:id", deps.ProductHandler.Detail)
	products.Post("/", requireSeller, deps.ProductHandler.Create)
	products.Put("/:id", requireSeller, deps.ProductHandler.Update)
	products.Delete("/:id", requireSeller, deps.ProductHandler.Delete)

	carts := api.Group("/carts", requireUser)
	carts.Get("/", deps.CartHandler.List)
	carts.Post("/", deps.CartHandler.Create)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": email, "password": "Passw0rd!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func pngPart(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func productForm(t *testing.T, fields map[string]string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if imageData != nil {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="images"; filename="img.png"`)
		hdr.Set("Content-Type", "image/png")
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(imageData); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func createProduct(t *testing.T, app *fiber.App, token, name string) map[string]any {
	t.Helper()
	body, ct := productForm(t, map[string]string{
		"name":    name,
		"price":   "42.00",
		"variant": `[{"variant":"one","stock":7}]`,
	}, pngPart(t))
	req := httptest.NewRequest("POST", "/api/products/", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("create product: status %d body %s", resp.StatusCode, raw)
	}
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	product, _ := out["product"].(map[string]any)
	if product == nil {
		t.Fatal("create response missing product")
	}
	return product
}

func TestProductRouteAuthz(t *testing.T) {
	app := newTestApp(t)

	// No token.
	body, ct := productForm(t, map[string]string{"name": "X", "price": "1"}, pngPart(t))
	req := httptest.NewRequest("POST", "/api/products/", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}

	// Buyer token on a seller route.
	buyer := login(t, app, "buyer@storefront.test")
	body, ct = productForm(t, map[string]string{"name": "X", "price": "1"}, pngPart(t))
	req = httptest.NewRequest("POST", "/api/products/", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+buyer)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "Seller role required") {
		t.Fatalf("unexpected body: %s", raw)
	}
}

func TestProductDetailNotFound(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, "GET", "/api/products/no-such-id", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
	if body["message"] != "Product not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestProductCreateAndList(t *testing.T) {
	app := newTestApp(t)
	seller := login(t, app, "seller@storefront.test")

	product := createProduct(t, app, seller, "Route Tester")
	if product["stockTotal"].(float64) != 7 {
		t.Fatalf("unexpected stockTotal: %v", product["stockTotal"])
	}

	resp, body := doJSON(t, app, "GET", "/api/products/?name=route", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	if body["total"].(float64) != 1 {
		t.Fatalf("unexpected total: %v", body["total"])
	}
}

func TestImageConditionalGet(t *testing.T) {
	app := newTestApp(t)
	seller := login(t, app, "seller@storefront.test")
	product := createProduct(t, app, seller, "Cached Print")

	imgs := product["images"].([]any)
	imgID := imgs[0].(map[string]any)["id"].(string)

	req := httptest.NewRequest("GET", "/api/products/image/"+imgID, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" || resp.Header.Get("Last-Modified") == "" {
		t.Fatal("missing caching headers")
	}
	if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "max-age=3600") {
		t.Fatalf("unexpected cache-control %q", cc)
	}

	req = httptest.NewRequest("GET", "/api/products/image/"+imgID, nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("want 304, got %d", resp.StatusCode)
	}

	// The product id serves its primary image too.
	req = httptest.NewRequest("GET", "/api/products/image/"+product["id"].(string), nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 via product id, got %d", resp.StatusCode)
	}
}

func TestCartRoutes(t *testing.T) {
	app := newTestApp(t)
	seller := login(t, app, "seller@storefront.test")
	buyer := login(t, app, "buyer@storefront.test")
	product := createProduct(t, app, seller, "Cart Fodder")

	resp, body := doJSON(t, app, "POST", "/api/carts/", buyer, map[string]any{
		"productId": product["id"], "quantity": 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add to cart: status %d body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, app, "GET", "/api/carts/", buyer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list carts: status %d", resp.StatusCode)
	}
	if body["total"].(float64) != 1 {
		t.Fatalf("unexpected cart total: %v", body["total"])
	}

	// Malformed JSON is a 400.
	req := httptest.NewRequest("POST", "/api/carts/", strings.NewReader("{nope"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buyer)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}
