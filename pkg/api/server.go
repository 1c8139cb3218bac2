package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bmarchant/imperium/pkg/api/handlers"
	"github.com/bmarchant/imperium/pkg/api/middleware"
	authproviders "github.com/bmarchant/imperium/pkg/auth/providers"
	"github.com/bmarchant/imperium/pkg/game"
	"github.com/bmarchant/imperium/pkg/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// APIServer exposes the engine's submit operations and the state read
// endpoints over HTTP, one route per operation.
type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// NewAPIServerOptions contains options for creating a new APIServer.
type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	AuthProvider authproviders.AuthProvider
	Engine       *game.Engine
	Store        store.Store
	WatchHub     *WatchHub
}

// NewAPIServer creates a new APIServer.
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	authMiddleware := middleware.NewAuthMiddleware(opts.AuthProvider)

	r := mux.NewRouter()
	r.Handle("/games", authMiddleware(handlers.HandleCreateGame(opts.Engine))).Methods(http.MethodPost)
	r.Handle("/games", handlers.HandleListGames(opts.Store)).Methods(http.MethodGet)
	r.Handle("/games/{gameID}", handlers.HandleGetGame(opts.Store)).Methods(http.MethodGet)
	r.Handle("/games/{gameID}/version", handlers.HandleGetVersion(opts.Store)).Methods(http.MethodGet)
	r.Handle("/games/{gameID}/watch", opts.WatchHub.HandleWatch()).Methods(http.MethodGet)

	submit := func(path string, h http.Handler) {
		r.Handle("/games/{gameID}/"+path, authMiddleware(h)).Methods(http.MethodPost)
	}
	submit("bid", handlers.HandleSubmitBid(opts.Engine))
	submit("buy-bid", handlers.HandleSubmitBuyBidDecision(opts.Engine))
	submit("buy", handlers.HandleSubmitBuy(opts.Engine))
	submit("proposal", handlers.HandleSubmitProposal(opts.Engine))
	submit("accept-proposal", handlers.HandleAcceptProposal(opts.Engine))
	submit("vote", handlers.HandleSubmitVote(opts.Engine))
	submit("maneuver", handlers.HandleSubmitManeuverStep(opts.Engine))
	submit("peace/dictator", handlers.HandleDictatorPeaceDecision(opts.Engine))
	submit("peace/vote", handlers.HandleDemocracyPeaceVote(opts.Engine))
	submit("undo", handlers.HandleUndo(opts.Engine))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: r,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Handler exposes the route table, mainly for tests.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the APIServer.
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		logrus.Infof("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		logrus.Infof("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			logrus.Info("API server closed")
			return
		}
		logrus.Errorf("API server error: %v", err)
	}
}

// Stop stops the APIServer.
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
