package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mzansigreen/office-backend/api/controllers"
	"github.com/mzansigreen/office-backend/api/middleware"
	"github.com/mzansigreen/office-backend/internal/analytics"
	"github.com/mzansigreen/office-backend/internal/auth"
	"github.com/mzansigreen/office-backend/internal/collections"
	"github.com/mzansigreen/office-backend/internal/rewards"
	"github.com/mzansigreen/office-backend/internal/scholar"
	"github.com/mzansigreen/office-backend/internal/users"
	"github.com/mzansigreen/office-backend/internal/wallet"
	"github.com/mzansigreen/office-backend/internal/withdrawals"
	"github.com/mzansigreen/office-backend/pkg/config"
	"github.com/mzansigreen/office-backend/pkg/db"
	"github.com/mzansigreen/office-backend/pkg/logger"
	"github.com/mzansigreen/office-backend/pkg/redis"
)

// Services bundles everything the router wires into controllers.
type Services struct {
	Auth        auth.Service
	Users       users.Service
	Collections collections.Service
	Withdrawals withdrawals.Service
	Wallet      wallet.Service
	Rewards     rewards.Service
	Scholar     scholar.Service
	Analytics   analytics.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	// A nil *redis.Client must stay a nil interface, not a typed nil that
	// defeats the downstream guards.
	var (
		idempotencyStore redis.IdempotencyStore
		redisPinger      redis.Pinger
	)
	if redisClient != nil {
		idempotencyStore = redisClient
		redisPinger = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/change-password", controllers.AuthChangePassword(svcs.Auth, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdministrative(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UsersList(svcs.Users, logg))
			r.Post("/{userId}/approve", controllers.UserApprove(svcs.Users, logg))
			r.Post("/{userId}/role", controllers.UserUpdateRole(svcs.Users, logg))
			r.Post("/{userId}/force-role", controllers.UserForceRole(svcs.Users, logg))
		})

		r.Route("/collections", func(r chi.Router) {
			r.Patch("/{collectionId}", controllers.CollectionUpdate(svcs.Collections, logg))
			r.Post("/{collectionId}/delete", controllers.CollectionDelete(svcs.Collections, logg))
		})
		r.Get("/pickups", controllers.PickupsList(svcs.Collections, logg))

		r.Post("/withdrawals/{withdrawalId}/delete", controllers.WithdrawalDelete(svcs.Withdrawals, logg))
		r.Get("/transactions", controllers.TransactionsList(svcs.Wallet, logg))
		r.Get("/analytics", controllers.AnalyticsOverview(svcs.Analytics, logg))

		r.Route("/rewards", func(r chi.Router) {
			r.Get("/", controllers.RewardsList(svcs.Rewards, logg))
			r.Post("/", controllers.RewardCreate(svcs.Rewards, logg))
			r.Patch("/{rewardId}", controllers.RewardUpdate(svcs.Rewards, logg))
			r.Delete("/{rewardId}", controllers.RewardDelete(svcs.Rewards, logg))
		})
	})

	r.Route("/api/green-scholar/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdministrative(logg))

		r.Post("/pet-contribution", controllers.PetContribution(svcs.Scholar, logg))
		r.Get("/fund", controllers.FundOverview(svcs.Scholar, logg))
	})

	return r
}
