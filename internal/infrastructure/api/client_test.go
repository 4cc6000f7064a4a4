package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/invorya-client/internal/application/dto"
	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/internal/infrastructure/api"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

func newClient(baseURL, token string) *api.Client {
	tokens := api.TokenFunc(func() (string, bool) { return token, token != "" })
	return api.New(baseURL, 5*time.Second, tokens, logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Cabeceras y transporte
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_EnviaBearerTokenCuandoHaySesion(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newClient(srv.URL, "tok-123").Health(context.Background()))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_SinSesionNoEnviaAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newClient(srv.URL, "").Health(context.Background()))
	assert.Empty(t, gotAuth)
}

func TestHealth_EstadoNo2xxEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Error(t, newClient(srv.URL, "").Health(context.Background()))
}

func TestClient_ErrorDelBackendIncluyeElCodigo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el owner"})
	}))
	defer srv.Close()

	err := newClient(srv.URL, "tok").SaveMatrixEntry(context.Background(), dto.MatrixUpdateRequest{
		Role:       "SALES_EXECUTIVE",
		Permission: "view_pos",
		Enabled:    true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORBIDDEN")
	assert.Contains(t, err.Error(), "403")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ValidaAntesDeTocarLaRed(t *testing.T) {
	llamadas := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		llamadas++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, "").Login(context.Background(), dto.LoginRequest{Phone: "", Password: "corta"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Zero(t, llamadas, "una petición inválida no debe salir a la red")
}

func TestLogin_DecodificaTokenEIdentidad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		var in dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "9000000001", in.Phone)
		_ = json.NewEncoder(w).Encode(dto.LoginResponse{
			Token: "tok-nuevo",
			User:  dto.UserResponse{ID: "u1", Name: "Dueño Demo", Role: "OWNER"},
		})
	}))
	defer srv.Close()

	out, err := newClient(srv.URL, "").Login(context.Background(), dto.LoginRequest{
		Phone:    "9000000001",
		Password: "owner@123",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-nuevo", out.Token)
	assert.Equal(t, "OWNER", out.User.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz de permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestPermissionMatrix_MandaCacheBustYDecodifica(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/permissions/matrix", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("cacheBust"), "cacheBust esquiva caches intermedios")
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"OWNER": {"view_pos", "view_dashboard"},
		})
	}))
	defer srv.Close()

	matrix, err := newClient(srv.URL, "tok").PermissionMatrix(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"view_pos", "view_dashboard"}, matrix["OWNER"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Suscripción
// ──────────────────────────────────────────────────────────────────────────────

func TestMySubscription_RechazaPayloadIncompleto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Sin status: el payload no cumple el contrato.
		_, _ = w.Write([]byte(`{"plan":"PREMIUM"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, "tok").MySubscription(context.Background())
	assert.Error(t, err)
}

func TestMySubscription_DecodificaElRegistro(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/my-subscription", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.SubscriptionResponse{
			Plan:    "PREMIUM",
			Status:  "ACTIVE",
			EndDate: "2026-09-30T00:00:00Z",
			IsPaid:  true,
		})
	}))
	defer srv.Close()

	out, err := newClient(srv.URL, "tok").MySubscription(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PREMIUM", out.Plan)
	assert.Equal(t, "ACTIVE", out.Status)
	assert.True(t, out.IsPaid)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contexto
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_RespetaLaCancelacionDelContexto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := newClient(srv.URL, "").Health(ctx)
	assert.Error(t, err)
}
