package router

import (
	"github.com/ocmafia/server/internal/application"
	"github.com/ocmafia/server/internal/container"
	pginfra "github.com/ocmafia/server/internal/infrastructure/postgres"
	handlers "github.com/ocmafia/server/internal/interface/http"
	"github.com/ocmafia/server/internal/router/modules"
	"github.com/ocmafia/server/pkg/validation"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	games := pginfra.NewGameRepository(pool)
	characters := pginfra.NewCharacterRepository(pool)
	roles := pginfra.NewRoleRepository(pool)

	search := application.NewSearchIndex(container.GetES(), cfg.ESUsersIndex, cfg.ESGamesIndex, logger)
	sessions := application.NewSessionIssuer(container.GetRedis(), container.GetJWT(), cfg.SessionTTL)

	unameRules := validation.UsernamePolicy{MinLen: cfg.UsernameMinLen, MaxLen: cfg.UsernameMaxLen}
	pwdRules := validation.PasswordPolicy{MinLen: cfg.PasswordMinLen, RequireLetter: true, RequireDigit: true}

	authSvc := application.NewAuthService(users, container.GetHasher(), sessions,
		unameRules, pwdRules, container.GetRabbitPub(), search, logger)
	profileSvc := application.NewProfileService(users, characters,
		container.GetGCS(), cfg.GCSBucket, search, logger)
	gameSvc := application.NewGameService(games, users, characters, search, logger)
	fetchSvc := application.NewFetchService(users, roles, games, characters,
		search, container.GetRedis(), logger)

	authH := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	userH := handlers.NewUserHandler(profileSvc, logger)
	gameH := handlers.NewGameHandler(gameSvc, logger)
	fetchH := handlers.NewFetchHandler(fetchSvc, logger)

	jwt := container.GetJWT()
	r.Add(modules.NewAuthModule(authH, jwt))
	r.Add(modules.NewUserModule(userH, jwt))
	r.Add(modules.NewGameModule(gameH, jwt))
	r.Add(modules.NewFetchModule(fetchH))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
