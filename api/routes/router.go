package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/reactmeals-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/reactmeals-backend/api/controllers/cart"
	"github.com/angelmondragon/reactmeals-backend/api/middleware"
	"github.com/angelmondragon/reactmeals-backend/internal/cart"
	"github.com/angelmondragon/reactmeals-backend/internal/meals"
	"github.com/angelmondragon/reactmeals-backend/pkg/config"
	"github.com/angelmondragon/reactmeals-backend/pkg/db"
	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
	"github.com/angelmondragon/reactmeals-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	mealsService meals.Service,
	sessions *cart.Registry,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowOrigin),
	)

	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["db"] = dbP
	}
	if redisP != nil {
		deps["redis"] = redisP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/meals", controllers.MealsList(mealsService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(logg, middleware.CartSessionOptions{
				Secure: cfg.Cart.CookieSecure,
				MaxAge: cfg.Cart.SessionIdleTTL,
			}))
			r.Get("/", cartcontrollers.CartFetch(sessions, logg))
			r.Delete("/", cartcontrollers.CartClear(sessions, logg))
			r.Post("/items", cartcontrollers.CartAddItem(sessions, mealsService, logg))
			r.Post("/items/{itemId}/increment", cartcontrollers.CartIncrementItem(sessions, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(sessions, logg))
			r.Get("/ws", cartcontrollers.CartWebSocket(sessions, logg, cartcontrollers.WebSocketOptions{
				CheckOrigin: middleware.OriginAllowed(cfg.App.AllowOrigin),
			}))
		})
	})

	return r
}
