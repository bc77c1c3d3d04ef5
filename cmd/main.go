package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"QrestAPI/internal/auth"
	"QrestAPI/internal/config"
	"QrestAPI/internal/db"
	"QrestAPI/internal/domain"
	"QrestAPI/internal/handler"
	"QrestAPI/internal/logger"
	"QrestAPI/internal/model"
	"QrestAPI/internal/pagination"
	"QrestAPI/internal/repository"
	"QrestAPI/internal/router"
	"QrestAPI/internal/service"
	"QrestAPI/internal/uow"
	"QrestAPI/internal/usgs"
)

func main() {
	debugFlag := flag.Bool("d", false, "enable debug logging")
	flag.Parse()

	cfg := config.LoadConfig()
	level := cfg.Log.Level
	if *debugFlag {
		level = "debug"
	}
	logger.Init(level, cfg.Log.Format)

	ctx := context.Background()

	if err := db.InitPostgres(ctx, cfg.PostgresDSN); err != nil {
		log.Error().Err(err).Msg("postgres_init_failed")
		os.Exit(1)
	}
	defer db.ClosePostgres()
	log.Info().Msg("postgres_connected")

	db.InitRedis(cfg.RedisAddr)
	defer db.CloseRedis()
	if err := db.PingRedis(ctx); err != nil {
		// Redis только ускоряет инжест, без него жить можно
		log.Warn().Err(err).Msg("redis_unavailable")
	}

	if cfg.MigrationsDir != "" {
		if err := db.RunMigrations(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
			log.Error().Err(err).Msg("migrations_failed")
			os.Exit(1)
		}
	}

	if err := model.InitRegistry(cfg.ResourcesDir); err != nil {
		log.Error().Err(err).Msg("registry_init_failed")
		os.Exit(1)
	}
	log.Info().Msg("resources_initialized")

	var validator *auth.JWTValidator
	if cfg.Auth.Enabled {
		v, err := auth.NewJWTValidator(cfg.Auth.JWT)
		if err != nil {
			log.Error().Err(err).Msg("jwt_validator_init_failed")
			os.Exit(1)
		}
		validator = v
	} else {
		log.Warn().Msg("auth_disabled")
	}

	app, err := buildApp(cfg)
	if err != nil {
		log.Error().Err(err).Msg("app_init_failed")
		os.Exit(1)
	}

	mux := router.New(router.Deps{
		Earthquakes:   app.earthquakes,
		Organizations: app.organizations,
		Users:         app.users,
		Validator:     validator,
		CORS:          cfg.CORS,
		AuthEnabled:   cfg.Auth.Enabled,
	})

	log.Info().Str("port", cfg.Port).Msg("server_start")
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		log.Error().Err(err).Msg("server_error")
		os.Exit(1)
	}
}

type app struct {
	earthquakes   *handler.EarthquakeHandlers
	organizations *handler.OrganizationHandlers
	users         *handler.UserHandlers
}

// buildApp связывает слои: реестр ресурсов -> репозитории -> сервисы ->
// обработчики.
func buildApp(cfg *config.Config) (*app, error) {
	codec := pagination.NewCodec(cfg.Pagination.CursorSecret)
	manager := uow.NewManager(db.Pool, cfg.DB.StatementTimeoutMS)

	quakeRepo, err := repository.New[domain.Earthquake]("earthquakes", codec, cfg.Pagination.MaxSize, repository.Mapper[domain.Earthquake]{
		Columns: func(e *domain.Earthquake) map[string]any { return e.Columns() },
		Insert:  func(e *domain.Earthquake) map[string]any { return e.InsertColumns() },
	})
	if err != nil {
		return nil, err
	}
	orgRepo, err := repository.New[domain.Organization]("organizations", codec, cfg.Pagination.MaxSize, repository.Mapper[domain.Organization]{
		Columns: func(o *domain.Organization) map[string]any { return o.Columns() },
		Insert:  func(o *domain.Organization) map[string]any { return o.InsertColumns() },
	})
	if err != nil {
		return nil, err
	}
	userRepo, err := repository.New[domain.User]("users", codec, cfg.Pagination.MaxSize, repository.Mapper[domain.User]{
		Columns: func(u *domain.User) map[string]any { return u.Columns() },
		Insert:  func(u *domain.User) map[string]any { return u.InsertColumns() },
	})
	if err != nil {
		return nil, err
	}

	usgsClient := usgs.NewClient(cfg.USGS)

	return &app{
		earthquakes:   handler.NewEarthquakeHandlers(service.NewEarthquakeService(manager, quakeRepo, usgsClient)),
		organizations: handler.NewOrganizationHandlers(service.NewOrganizationService(manager, orgRepo, userRepo)),
		users:         handler.NewUserHandlers(service.NewUserService(manager, userRepo)),
	}, nil
}
