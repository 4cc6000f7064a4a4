// Package api implementa el cliente HTTP del backend de Invorya. Usa net/http
// de la stdlib; no requiere librerías de terceros para el transporte.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tu-usuario/invorya-client/internal/application/dto"
	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

// TokenSource provee el bearer token vigente. Lo implementa el almacén de
// sesión; devuelve ok=false cuando no hay sesión (las llamadas van sin header).
type TokenSource interface {
	Token() (string, bool)
}

// TokenFunc adaptador func → TokenSource.
type TokenFunc func() (string, bool)

// Token implementa TokenSource.
func (f TokenFunc) Token() (string, bool) { return f() }

// Client cliente del backend. Todas las llamadas son context-aware y
// devuelven error ante cualquier estado no-2xx; los llamadores deciden si el
// fallo es fatal (nunca lo es en el núcleo del cliente).
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	validate *validator.Validate
	log      *logger.Logger
}

// New construye el cliente del backend.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *logger.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

// Health sondea la vivacidad del backend. Cualquier error o estado no-2xx
// equivale a "backend caído".
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/", nil, nil)
}

// Login autentica con teléfono y password. Devuelve token + identidad.
func (c *Client) Login(ctx context.Context, in dto.LoginRequest) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.validate.Struct(in); err != nil {
		return out, fmt.Errorf("login: %w: %v", domain.ErrInvalidInput, err)
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return out, err
	}
	return out, nil
}

// CurrentUser trae la identidad fresca del usuario autenticado (merge parcial
// a cargo del session manager).
func (c *Client) CurrentUser(ctx context.Context) (dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Logout avisa al backend del cierre de sesión. Best-effort: el llamador
// traga el error.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// PermissionMatrix trae la matriz de permisos del servidor:
// rol → lista de claves habilitadas. cacheBust evita respuestas cacheadas.
func (c *Client) PermissionMatrix(ctx context.Context) (map[string][]string, error) {
	path := "/permissions/matrix?cacheBust=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	var out map[string][]string
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveMatrixEntry persiste el alta/baja de un permiso para un rol.
func (c *Client) SaveMatrixEntry(ctx context.Context, in dto.MatrixUpdateRequest) error {
	if err := c.validate.Struct(in); err != nil {
		return fmt.Errorf("matriz: %w: %v", domain.ErrInvalidInput, err)
	}
	return c.do(ctx, http.MethodPost, "/permissions/matrix", in, nil)
}

// MySubscription trae la suscripción del usuario actual.
func (c *Client) MySubscription(ctx context.Context) (dto.SubscriptionResponse, error) {
	var out dto.SubscriptionResponse
	if err := c.do(ctx, http.MethodGet, "/subscriptions/my-subscription", nil, &out); err != nil {
		return out, err
	}
	if err := c.validate.Struct(out); err != nil {
		return dto.SubscriptionResponse{}, fmt.Errorf("suscripción: payload inválido: %w", err)
	}
	return out, nil
}

// do ejecuta una llamada JSON: serializa body, añade el bearer token si hay
// sesión, verifica el estado y decodifica en out (si out != nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: serializar %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: construir %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Token(); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr dto.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Code != "" {
			return fmt.Errorf("api: %s %s: %d %s: %s", method, path, resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("api: %s %s: estado %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: decodificar %s %s: %w", method, path, err)
		}
	}
	return nil
}
