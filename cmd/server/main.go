package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kwintel/internal/analysis"
	"kwintel/internal/api"
	"kwintel/internal/config"
	"kwintel/internal/service"
	"kwintel/internal/state"
)

func main() {
	_ = godotenv.Load() // optional .env

	cfg := config.Load()
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	yamlCfg.Apply(cfg)

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	var aliases map[string][]string
	if yamlCfg != nil {
		aliases = yamlCfg.FieldAliases
	}
	resolver := service.NewSchemaResolverWithAliases(aliases)
	pipeline := analysis.NewPipeline(logger, resolver)
	appState := state.New()
	handler := api.NewHandler(pipeline, appState, cfg, logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("kwintel API is running"))
	})
	handler.RegisterRoutes(r)

	logger.Info("starting server",
		zap.String("addr", cfg.ServerAddr),
		zap.Strings("cors", cfg.CORSOrigins),
	)
	if err := http.ListenAndServe(cfg.ServerAddr, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
