package notifications

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/auth"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/notifications/websocket"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

const handlerTestSecret = "handler-test-secret"

func signActorToken(t *testing.T, actorID uuid.UUID, role workflow.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(handlerTestSecret))
	assert.NoError(t, err)
	return signed
}

func newHandlerRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := NewService(store, nil, nil, nil, nil, zap.NewNop())
	handler := NewHandler(service, websocket.NewManager(zap.NewNop()))

	router := gin.New()
	api := router.Group("/api/v1", auth.Middleware(handlerTestSecret))
	handler.RegisterRoutes(api)
	return router
}

func TestMarkReadUnknownNotificationReturns404(t *testing.T) {
	store := new(MockStore)
	router := newHandlerRouter(store)

	actorID := uuid.New()
	store.On("MarkRead", mock.Anything, actorID, uint(7)).
		Return(workflow.NotFound("notification 7 not found"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/7/read", nil)
	req.Header.Set("Authorization", "Bearer "+signActorToken(t, actorID, workflow.RoleRequester))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkReadStoreFailureReturns500(t *testing.T) {
	store := new(MockStore)
	router := newHandlerRouter(store)

	actorID := uuid.New()
	store.On("MarkRead", mock.Anything, actorID, uint(7)).Return(assert.AnError)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/7/read", nil)
	req.Header.Set("Authorization", "Bearer "+signActorToken(t, actorID, workflow.RoleRequester))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
