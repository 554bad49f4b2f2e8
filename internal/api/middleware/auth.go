package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type ctxKey string

const (
	ctxKeyTenantID ctxKey = "tenantID"
	ctxKeyActorID  ctxKey = "actorID"
	ctxKeyRole     ctxKey = "actorRole"
)

const (
	headerTenantID = "X-Tenant-ID"
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

const (
	msgMissingTenant = "отсутствует или некорректен заголовок X-Tenant-ID"
	msgMissingUser   = "отсутствует или некорректен заголовок X-User-ID"
	msgUnknownRole   = "неизвестная роль в заголовке X-User-Role"
)

// Auth извлекает тенанта, пользователя и роль из заголовков
// Аутентификацию выполняет gateway, сервис доверяет заголовкам
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := strconv.ParseInt(r.Header.Get(headerTenantID), 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, msgMissingTenant)
			return
		}

		actorID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
		if err != nil || actorID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, msgMissingUser)
			return
		}

		role := domain.Role(r.Header.Get(headerUserRole))
		if !role.IsKnown() {
			handlers.RespondError(w, http.StatusUnauthorized, msgUnknownRole)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyTenantID, tenantID)
		ctx = context.WithValue(ctx, ctxKeyActorID, actorID)
		ctx = context.WithValue(ctx, ctxKeyRole, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TenantID возвращает ID тенанта из контекста запроса
func TenantID(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKeyTenantID).(int64)
	return id
}

// ActorID возвращает ID пользователя из контекста запроса
func ActorID(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKeyActorID).(int64)
	return id
}

// ActorRole возвращает роль пользователя из контекста запроса
func ActorRole(ctx context.Context) domain.Role {
	role, _ := ctx.Value(ctxKeyRole).(domain.Role)
	return role
}
