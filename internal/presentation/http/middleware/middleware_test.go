package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/internal/presentation/http/handler"
	"github.com/sangkips/register-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[userID.String()+"/"+key], nil
}

func (r *memoryIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.UserID.String()+"/"+ikey.Key] = ikey
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func withUser(userID uuid.UUID, role enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handler.ContextUserID, userID)
		c.Set(handler.ContextRole, string(role))
		c.Next()
	}
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0

	router := gin.New()
	router.POST("/sales", withUser(uuid.New(), enum.RoleCashier), Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sales", nil)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send("k1")
	second := send("k1")
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("replay = %d %s, want %d %s", second.Code, second.Body.String(), first.Code, first.Body.String())
	}
	if second.Header().Get(IdempotencyReplayedHeader) != "true" {
		t.Error("missing replay header")
	}

	send("")
	send("")
	if calls != 3 {
		t.Errorf("requests without a key must always run, calls = %d", calls)
	}
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0

	router := gin.New()
	router.POST("/sales", withUser(uuid.New(), enum.RoleCashier), Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "insufficient tender"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/sales", nil)
		req.Header.Set(IdempotencyKeyHeader, "retry-me")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Errorf("a rejected request must be retryable, calls = %d", calls)
	}
}

func TestIdempotencyExpiredKeyRunsAgain(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0

	router := gin.New()
	router.POST("/sales", withUser(uuid.New(), enum.RoleCashier), Idempotency(IdempotencyConfig{
		Repo: repo,
		TTL:  time.Minute,
		Now:  func() time.Time { return now },
	}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{})
	})

	send := func() {
		req := httptest.NewRequest(http.MethodPost, "/sales", nil)
		req.Header.Set(IdempotencyKeyHeader, "k")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	send()
	now = now.Add(2 * time.Minute)
	send()
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after expiry", calls)
	}
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	alice, bob := uuid.New(), uuid.New()
	router := gin.New()
	router.GET("/a", withUser(alice, enum.RoleCashier), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/b", withUser(bob, enum.RoleCashier), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := get("/a"); code != http.StatusOK {
			t.Fatalf("request %d = %d", i, code)
		}
	}
	if code := get("/a"); code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", code)
	}
	if code := get("/b"); code != http.StatusOK {
		t.Errorf("another user must have its own bucket, got %d", code)
	}
	if n := rl.ActiveKeys(); n != 2 {
		t.Errorf("active keys = %d", n)
	}

	rl.cleanup(time.Now().Add(time.Hour))
	if n := rl.ActiveKeys(); n != 0 {
		t.Errorf("stale keys left after cleanup: %d", n)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role enum.Role
		want int
	}{
		{"admin allowed", enum.RoleAdmin, http.StatusOK},
		{"cashier forbidden", enum.RoleCashier, http.StatusForbidden},
		{"no role forbidden", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", withUser(uuid.New(), tt.role), RequireRole(enum.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "register-api", time.Hour)
	userID := uuid.New()
	token, err := jwt.GenerateAccessToken(userID, "casey", "Casey", string(enum.RoleCashier))
	if err != nil {
		t.Fatal(err)
	}

	router := gin.New()
	router.GET("/", AuthMiddleware(jwt), func(c *gin.Context) {
		id := handler.GetUserID(c)
		if id == nil || *id != userID || handler.GetUsername(c) != "casey" || handler.GetUserRole(c) != enum.RoleCashier {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid bearer", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
