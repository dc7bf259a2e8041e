// cmd/seeduser/main.go — Crea el primer usuario operador.
// Uso: SEED_USERNAME=admin SEED_PASSWORD=secreto123 go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/caludio70/boletosventa-sub000/internal/config"
	"github.com/caludio70/boletosventa-sub000/internal/dto"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/repository"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	req := dto.CrearUsuarioRequest{
		Username: envOr("SEED_USERNAME", "admin"),
		Nombre:   envOr("SEED_NOMBRE", "Administrador"),
		Password: envOr("SEED_PASSWORD", "cambiar1234"),
	}

	auth := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
	u, err := auth.CrearUsuario(context.Background(), req)
	if err != nil {
		log.Fatal().Err(err).Str("username", req.Username).Msg("no se pudo crear el usuario")
	}
	fmt.Printf("Usuario '%s' creado (id %s)\n", u.Username, u.ID)
}
