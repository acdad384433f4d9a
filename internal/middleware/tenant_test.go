package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

func TestTenantMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		tenantID       string
		wantStatusCode int
		wantError      string
		wantTenant     string
	}{
		{
			name:           "NoTenant",
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrTenantRequired.Error(),
		},
		{
			name:           "BlankTenant",
			tenantID:       "   ",
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrTenantRequired.Error(),
		},
		{
			name:           "TooLongTenant",
			tenantID:       strings.Repeat("t", maxTenantIDLength+1),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrTenantRequired.Error(),
		},
		{
			name:           "OK",
			tenantID:       " acme ",
			wantStatusCode: http.StatusOK,
			wantTenant:     "acme",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gin.SetMode(gin.ReleaseMode)
			server := gin.New()

			path := "/tenant"
			server.GET(path, TenantMiddleware(), func(ctx *gin.Context) {
				ctx.JSON(http.StatusOK, web.Response{Data: TenantID(ctx)})
			})

			recorder := httptest.NewRecorder()

			request, err := http.NewRequest(http.MethodGet, path, nil)
			if err != nil {
				t.Fatalf("http.NewRequest(%v, %v, nil) returned error: %v", http.MethodGet, path, err)
			}

			if tc.tenantID != "" {
				request.Header.Set(TenantHeader, tc.tenantID)
			}

			server.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, tc.wantStatusCode = %v, want equal",
					recorder.Code, tc.wantStatusCode)
			}

			got := web.Response{}
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %v, tc.wantError = %v, want equal", got.Error, tc.wantError)
			}

			if tc.wantTenant != "" && got.Data != tc.wantTenant {
				t.Errorf("got.Data = %v, tc.wantTenant = %v, want equal", got.Data, tc.wantTenant)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	server := gin.New()

	logger := CreateLogger(configpkg.Config{}).Output(io.Discard).Level(zerolog.WarnLevel)
	server.Use(RequestLogger(logger))

	var hasLogger bool

	server.GET("/ping", func(ctx *gin.Context) {
		hasLogger = zerolog.Ctx(ctx.Request.Context()).GetLevel() == zerolog.WarnLevel
		ctx.Status(http.StatusNoContent)
	})

	t.Run("GeneratesRequestID", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)

		server.ServeHTTP(recorder, request)

		if recorder.Header().Get(RequestIDHeader) == "" {
			t.Errorf("response header %v is empty", RequestIDHeader)
		}

		if !hasLogger {
			t.Errorf("request context carries no request logger")
		}
	})

	t.Run("KeepsRequestID", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)
		request.Header.Set(RequestIDHeader, "req-1")

		server.ServeHTTP(recorder, request)

		if got := recorder.Header().Get(RequestIDHeader); got != "req-1" {
			t.Errorf("response header %v = %q, want %q", RequestIDHeader, got, "req-1")
		}
	})
}
