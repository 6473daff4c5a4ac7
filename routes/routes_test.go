package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp mounts the auth middleware chain the way main does, with a
// stub handler behind it so the tests exercise authorization without a
// database.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	ok := func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	}

	property := app.Party("/api/property")
	{
		property.Post("/", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, ok)
	}
	account := app.Party("/api/account", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		account.Get("/", ok)
	}
	return app
}

func signTestToken(id uint, role models.UserRole) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: string(role)})
	return string(token)
}

func TestCreatePropertyRequiresHostRole(t *testing.T) {
	app := buildTestApp()
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	// No token
	req := httptest.NewRequest(http.MethodPost, "/api/property", strings.NewReader("{}"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Renter role -> 403
	req2 := httptest.NewRequest(http.MethodPost, "/api/property", strings.NewReader("{}"))
	req2.Header.Set("Authorization", "Bearer "+signTestToken(1, models.RoleRenter))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for renter role, got %d", resp2.Code)
	}

	// Host role -> 200
	req3 := httptest.NewRequest(http.MethodPost, "/api/property", strings.NewReader("{}"))
	req3.Header.Set("Authorization", "Bearer "+signTestToken(1, models.RoleHost))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for host role, got %d", resp3.Code)
	}
}

func TestAccountRoutesRequireToken(t *testing.T) {
	app := buildTestApp()
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(7, models.RoleRenter))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", resp2.Code)
	}
}
