package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/controllers"
	"github.com/circularis/backend/internal/middleware"
)

func registeredRoutes(t *testing.T) gin.RoutesInfo {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupRouter(router,
		controllers.NewAuthController(nil, zerolog.Nop()),
		controllers.NewUserController(nil),
		controllers.NewMaterialController(nil),
		controllers.NewTradeController(nil),
		controllers.NewChatController(nil),
		controllers.NewMessageController(nil),
		controllers.NewNotificationController(nil),
		controllers.NewReportController(nil),
		controllers.NewRecommendationController(nil),
		middleware.NewAuthMiddleware(nil),
	)

	return router.Routes()
}

func hasRoute(routes gin.RoutesInfo, method, path string) bool {
	for _, route := range routes {
		if route.Method == method && route.Path == path {
			return true
		}
	}
	return false
}

func TestChatReadStateRoutes(t *testing.T) {
	routes := registeredRoutes(t)

	// Marking a chat read mutates state in place, so it rides on PATCH
	if !hasRoute(routes, http.MethodPatch, "/api/chats/:id/read-all") {
		t.Fatalf("expected PATCH /api/chats/:id/read-all to be registered")
	}
	if hasRoute(routes, http.MethodPost, "/api/chats/:id/read-all") {
		t.Fatalf("read-all must not be registered as POST")
	}
	if !hasRoute(routes, http.MethodGet, "/api/chats/:id/unread-count") {
		t.Fatalf("expected GET /api/chats/:id/unread-count to be registered")
	}
}

func TestCoreRoutesRegistered(t *testing.T) {
	routes := registeredRoutes(t)

	expected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/register"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/trades"},
		{http.MethodPatch, "/api/trades/:id/complete"},
		{http.MethodDelete, "/api/trades/:id"},
		{http.MethodPost, "/api/chats"},
		{http.MethodGet, "/api/chats/:id/messages"},
		{http.MethodPost, "/api/messages"},
		{http.MethodPatch, "/api/messages/:id/read"},
	}

	for _, want := range expected {
		if !hasRoute(routes, want.method, want.path) {
			t.Fatalf("expected %s %s to be registered", want.method, want.path)
		}
	}
}
