// Package httpapi exposes the commerce engines as a JSON API mounted on chi.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shoplinehq/commerce-manager/internal/analytics"
	"github.com/shoplinehq/commerce-manager/internal/cache"
	"github.com/shoplinehq/commerce-manager/internal/dependency"
)

// Config holds the http server settings.
type Config struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// Server is the http transport over the repository and the in-process
// engines.
type Server struct {
	cfg            *Config
	rep            dependency.Repository
	analytics      *analytics.Service
	recentlyViewed *cache.RecentlyViewed
	comparison     *cache.Comparison
	srv            *http.Server
}

// New creates the server; Start actually binds the listener.
func New(cfg *Config, rep dependency.Repository, an *analytics.Service, rv *cache.RecentlyViewed, cmp *cache.Comparison) *Server {
	return &Server{
		cfg:            cfg,
		rep:            rep,
		analytics:      an,
		recentlyViewed: rv,
		comparison:     cmp,
	}
}

// Start serves the API until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.Router(),
	}
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Router builds the route tree. Exposed separately so tests can mount it on
// httptest servers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	timeout := 60 * time.Second
	if s.cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(s.cfg.TimeoutSeconds) * time.Second
	}

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})

	r.Use(c.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Post("/", s.addCartItem)
			r.Get("/", s.getCartItems)
			r.Put("/", s.updateCartItem)
			r.Delete("/", s.deleteCartItem)
			r.Post("/clear", s.clearCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Post("/", s.addWishlistItem)
			r.Get("/", s.getWishlistItems)
			r.Put("/", s.updateWishlistItem)
			r.Delete("/", s.deleteWishlistItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", s.createOrder)
			r.Get("/", s.getOrders)
			r.Put("/", s.updateOrder)
			r.Delete("/", s.cancelOrder)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", s.createSubscription)
			r.Get("/", s.getSubscriptions)
			r.Put("/", s.updateSubscription)
			r.Delete("/", s.cancelSubscription)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", s.addReview)
			r.Get("/", s.getReviews)
			r.Put("/", s.updateReview)
			r.Delete("/", s.deleteReview)
		})

		r.Get("/analytics", s.getAnalytics)

		r.Route("/products/search", func(r chi.Router) {
			r.Get("/", s.searchProducts)
			r.Post("/", s.compareProducts)
		})

		r.Get("/user/stats", s.getUserStats)

		r.Route("/recently-viewed", func(r chi.Router) {
			r.Get("/", s.getRecentlyViewed)
			r.Post("/", s.touchRecentlyViewed)
			r.Delete("/", s.clearRecentlyViewed)
		})

		r.Route("/comparison", func(r chi.Router) {
			r.Get("/", s.getComparison)
			r.Post("/", s.addComparison)
			r.Delete("/", s.removeComparison)
		})
	})

	return r
}
