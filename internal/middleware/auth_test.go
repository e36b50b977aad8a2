package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"cennygrosz/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuthRouter(issuer *TokenIssuer) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(issuer))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func testUser() *models.User {
	return &models.User{Base: models.Base{ID: "0190a5b4-1c2d-7e8f-9a0b-1c2d3e4f5a6b"}, Email: "anna@example.com"}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Generate(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != testUser().ID {
		t.Errorf("user id = %q, want %q", claims.UserID, testUser().ID)
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenIssuer("secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.Generate(testUser())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := issuer.Verify(token); err == nil {
			t.Error("expected expired token to be rejected")
		}
	})

	t.Run("wrong_secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other", time.Hour).Generate(testUser())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := issuer.Verify(token); err == nil {
			t.Error("expected token signed with another secret to be rejected")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := issuer.Verify("not.a.jwt"); err == nil {
			t.Error("expected malformed token to be rejected")
		}
	})

	t.Run("none_algorithm", func(t *testing.T) {
		claims := &JWTClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := issuer.Verify(token); err == nil {
			t.Error("expected unsigned token to be rejected")
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	valid, err := issuer.Generate(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid_token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong_scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "garbage_token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(setupAuthRouter(issuer), tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			body := parseBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				if body["user_id"] != testUser().ID {
					t.Errorf("expected user id in context, got %v", body["user_id"])
				}
				return
			}
			errObj, ok := body["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected error object in response")
			}
			if errObj["code"] != "UNAUTHORIZED" {
				t.Errorf("error code = %v, want UNAUTHORIZED", errObj["code"])
			}
		})
	}
}
