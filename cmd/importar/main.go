// cmd/importar/main.go — Importa una planilla de movimientos sin pasar por la API.
// Uso: go run ./cmd/importar -archivo movimientos.xlsx -modo agregar
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/caludio70/boletosventa-sub000/internal/config"
	"github.com/caludio70/boletosventa-sub000/internal/infra"
	"github.com/caludio70/boletosventa-sub000/internal/repository"
	"github.com/caludio70/boletosventa-sub000/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	archivo := flag.String("archivo", "", "ruta de la planilla .xlsx")
	modo := flag.String("modo", "reemplazar", "reemplazar | agregar")
	flag.Parse()

	if *archivo == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	f, err := os.Open(*archivo)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo abrir la planilla")
	}
	defer f.Close()

	svc := service.NewImportacionService(repository.NewMovimientoRepository(db))
	res, err := svc.Importar(context.Background(), nil, filepath.Base(*archivo), strings.ToLower(*modo), f)
	if err != nil {
		log.Fatal().Err(err).Msg("importacion fallida")
	}
	for _, adv := range res.Advertencias {
		log.Warn().Msg(adv)
	}
	log.Info().
		Str("lote_id", res.LoteID).
		Int("filas", res.Filas).
		Int("omitidas", res.Omitidas).
		Int("tickets", res.Tickets).
		Msg("importacion completa")
}
