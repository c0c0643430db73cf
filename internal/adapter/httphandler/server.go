package httphandler

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/choco-shop/internal/core/port"
)

const requestTimeout = 10 * time.Second

// Services are the inbound ports the router serves.
type Services struct {
	Catalog    port.Catalog
	Carts      port.Carts
	Checkout   port.Checkout
	Storefront port.Storefront
	Admin      port.Admin
}

type RouterConfig struct {
	Currency          string
	AdminUser         string
	AdminPasswordHash string
	WebhookSecret     string
	// Terminal is set for the mock payment provider only.
	Terminal MockTerminal
	// SPA is the built storefront, nil disables serving it.
	SPA fs.FS
}

func NewRouter(cfg RouterConfig, s Services) http.Handler {
	mux := http.NewServeMux()

	RegisterCatalog(mux, s.Catalog, cfg.Currency)
	RegisterCarts(mux, s.Carts, cfg.Currency)
	RegisterCheckout(mux, s.Checkout, cfg.WebhookSecret, cfg.Terminal)
	RegisterStorefront(mux, s.Storefront)
	RegisterAdmin(
		mux, s.Admin, cfg.Currency,
		BasicAuth(cfg.AdminUser, []byte(cfg.AdminPasswordHash)),
	)
	if cfg.SPA != nil {
		RegisterSPA(mux, cfg.SPA)
	}

	return LogRequests(AllowJSON(mux))
}

type HTTPServer struct {
	httpServer *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) HTTPServer {
	handler = http.TimeoutHandler(handler, requestTimeout, `{"error":"unavailable"}`)
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	log.Info("listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
