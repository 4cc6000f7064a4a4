package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tu-usuario/invorya-client/internal/application/guard"
	"github.com/tu-usuario/invorya-client/internal/application/monitor"
	"github.com/tu-usuario/invorya-client/internal/application/permissions"
	"github.com/tu-usuario/invorya-client/internal/application/session"
	"github.com/tu-usuario/invorya-client/internal/application/subscription"
	"github.com/tu-usuario/invorya-client/internal/infrastructure/api"
	"github.com/tu-usuario/invorya-client/internal/infrastructure/notify"
	"github.com/tu-usuario/invorya-client/internal/infrastructure/sessionstore"
	"github.com/tu-usuario/invorya-client/pkg/config"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.API.BaseURL).
		Msg("iniciando cliente")

	// Almacén de sesión: archivo si hay ruta configurada, memoria si no.
	var store sessionstore.Store
	if cfg.Session.StorePath != "" {
		fileStore, err := sessionstore.OpenFileStore(cfg.Session.StorePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir almacén de sesión")
		}
		store = fileStore
	} else {
		store = sessionstore.NewMemoryStore()
	}

	// El cliente API toma el token directamente del almacén de sesión.
	tokens := api.TokenFunc(func() (string, bool) {
		return store.Get(sessionstore.KeyAuthToken)
	})
	backend := api.New(cfg.API.BaseURL, cfg.API.Timeout(), tokens, log)

	notes := notify.NewCenter(log)
	sess := session.NewManager(store, backend, log)
	matrix := permissions.NewStore(backend, notes, log)
	engine := subscription.NewEngine(backend, log)
	nav := guard.New(sess, matrix, engine, log)

	// Identidad nueva → re-fetch de matriz y suscripción.
	refetch := func() {
		if !sess.IsAuthenticated() || sess.Role() == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout())
		defer cancel()
		_ = matrix.Fetch(ctx) // fallo no fatal: la matriz vieja sigue sirviendo
		_ = engine.Fetch(ctx)
	}
	sess.Subscribe(refetch)

	sess.Restore()
	refetch()

	if id, ok := sess.Identity(); ok {
		decision := nav.Evaluate(guard.RouteRequirement(guard.PathDashboard), guard.PathDashboard)
		log.Info().
			Str("usuario", id.DisplayName).
			Str("rol", string(sess.Role())).
			Int("decision", int(decision.Kind)).
			Msg("sesión lista")
	} else {
		log.Info().Msg("sin sesión persistida, se requiere login")
	}

	// Tareas de fondo atadas al ciclo de vida del proceso.
	tasks := monitor.New(backend, sess, engine, cfg.Monitor.Heartbeat(), cfg.Monitor.ExpiryCheck(), log)
	tasks.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, deteniendo tareas...")
	tasks.Stop()

	// Margen para que el logout best-effort en vuelo termine de loguearse.
	time.Sleep(100 * time.Millisecond)
	log.Info().Msg("cliente detenido")
}
