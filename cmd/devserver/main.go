package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	devhttp "github.com/tu-usuario/invorya-client/internal/interfaces/http"
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

	secret := cfg.JWT.Secret
	if secret == "" {
		// Solo para desarrollo local; el devserver nunca corre en producción.
		secret = "invorya-dev-secret-no-usar-en-produccion"
		log.Warn().Msg("JWT_SECRET vacío, usando secret de desarrollo")
	}

	log.Info().
		Str("env", cfg.App.Env).
		Str("addr", cfg.HTTP.Addr()).
		Msg("iniciando backend de desarrollo")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + "-devserver",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invorya Dev API",
	}))

	devhttp.Router(app, devhttp.RouterDeps{
		Store:       devhttp.NewDevStore(),
		ServiceName: cfg.App.Name,
		JWTSecret:   secret,
		JWTIssuer:   cfg.JWT.Issuer,
		JWTExpMin:   cfg.JWT.Expiration,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("backend de desarrollo detenido")
}
