package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/choco-shop/config"
	"github.com/niksmo/choco-shop/internal/adapter"
	"github.com/niksmo/choco-shop/internal/adapter/cache"
	"github.com/niksmo/choco-shop/internal/adapter/httphandler"
	"github.com/niksmo/choco-shop/internal/adapter/kafka"
	"github.com/niksmo/choco-shop/internal/adapter/markdown"
	"github.com/niksmo/choco-shop/internal/adapter/payment"
	"github.com/niksmo/choco-shop/internal/adapter/storage"
	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
	"github.com/niksmo/choco-shop/internal/core/service"
	"github.com/niksmo/choco-shop/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type serdes struct {
	orderPlaced schema.Serde
	orderPaid   schema.Serde
}

// broker holds the optional event streaming parts.
type broker struct {
	serdes      serdes
	producer    kafka.OrderEventsProducer
	bestsellers *kafka.BestsellersProcessor
	salesView   kafka.SalesView
}

type gateway struct {
	port     port.PaymentGateway
	terminal httphandler.MockTerminal
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	sqldb      storage.SQLDB
	redis      cache.Client
	storages   service.Storages
	broker     *broker
	gateway    gateway
	services   httphandler.Services
	httpServer httphandler.HTTPServer
	wg         sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initCache()
	if cfg.Broker.Enabled() {
		app.initBroker()
	}
	app.initPayment()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = sqldb
	app.storages.Products = storage.NewProductsRepository(sqldb)
	app.storages.Discounts = storage.NewDiscountsRepository(sqldb)
	app.storages.Orders = storage.NewOrdersRepository(sqldb)
	app.storages.Theme = storage.NewThemeRepository(sqldb)
	app.storages.Events = storage.NewEventsRepository(sqldb)
}

func (app *App) initCache() {
	const op = "App.initCache"

	client, err := cache.NewClient(app.ctx, app.cfg.Redis.URL)
	if err != nil {
		app.fallDown(op, err)
	}
	app.redis = client
	app.storages.Carts = cache.NewCartsRepository(client, app.cfg.Redis.CartTTL)
}

func (app *App) initBroker() {
	const op = "App.initBroker"

	cfg := app.cfg.Broker
	var b broker

	if cfg.TLS.Enabled() {
		tlsConfig, err := adapter.MakeTLSConfig(
			cfg.TLS.CAFile, cfg.TLS.CertFile, cfg.TLS.KeyFile,
		)
		if err != nil {
			app.fallDown(op, err)
		}
		kafka.UseTLS(tlsConfig)
		app.initProducer(&b, tlsConfig)
	} else {
		app.initProducer(&b, nil)
	}

	proc, err := kafka.NewBestsellersProc(
		cfg.SeedBrokers,
		cfg.Topics.OrdersPlaced,
		cfg.Groups.Bestsellers,
		b.serdes.orderPlaced,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	b.bestsellers = proc

	view, err := kafka.NewSalesView(
		cfg.SeedBrokers,
		cfg.Groups.Bestsellers,
		goka.WithViewAutoReconnect(),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	b.salesView = view

	app.broker = &b
}

func (app *App) initProducer(b *broker, tlsConfig *tls.Config) {
	const op = "App.initProducer"

	cfg := app.cfg.Broker

	srClient, err := sr.NewClient(sr.URLs(cfg.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}
	identifier := schema.NewSchemaIdentifier(srClient)

	placed, err := schema.NewSerdeOrderPlacedV1(
		app.ctx,
		schema.SubjectOpt(cfg.Topics.OrdersPlaced+"-value"),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	paid, err := schema.NewSerdeOrderPaidV1(
		app.ctx,
		schema.SubjectOpt(cfg.Topics.OrdersPaid+"-value"),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	b.serdes = serdes{orderPlaced: placed, orderPaid: paid}

	producer, err := kafka.NewOrderEventsProducer(
		kafka.ProducerClientOpt(app.ctx, cfg.SeedBrokers, tlsConfig),
		kafka.ProducerTopicsOpt(
			cfg.Topics.OrdersPlaced, placed,
			cfg.Topics.OrdersPaid, paid,
		),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	b.producer = producer
}

func (app *App) initPayment() {
	cfg := app.cfg.Payment

	switch cfg.Provider {
	case config.ProviderHosted:
		app.gateway.port = payment.NewHostedGateway(payment.HostedConfig{
			APIURL:    cfg.APIURL,
			SecretKey: cfg.SecretKey,
			Currency:  cfg.Currency,
			ReturnURL: app.cfg.PublicURL + "/checkout/return",
			CancelURL: app.cfg.PublicURL + "/cart",
		})
	default:
		mock := payment.NewMockGateway(app.cfg.PublicURL + "/checkout/mock/")
		app.gateway.port = mock
		app.gateway.terminal = mock
		slog.Warn("mock payment provider is used, do not run it in production")
	}
}

func (app *App) initCoreService() {
	renderer := markdown.NewRenderer()

	var (
		producer port.OrderEventsProducer
		sales    port.SalesView
	)
	if app.broker != nil {
		producer = app.broker.producer
		sales = app.broker.salesView
	}

	s := service.New(
		service.Config{
			Currency: app.cfg.Payment.Currency,
			Shipping: domain.ShippingPolicy{
				FlatCents:     app.cfg.Checkout.ShippingCents,
				FreeFromCents: app.cfg.Checkout.FreeShippingFromCents,
			},
		},
		app.storages,
		app.gateway.port,
		producer,
		sales,
		renderer,
	)

	app.services = httphandler.Services{
		Catalog:    s,
		Carts:      s,
		Checkout:   s,
		Storefront: s,
		Admin:      service.NewAdmin(app.storages, renderer),
	}
}

func (app *App) initInboundAdapters() {
	var spa fs.FS
	if app.cfg.SPADir != "" {
		spa = os.DirFS(app.cfg.SPADir)
	}

	handler := httphandler.NewRouter(httphandler.RouterConfig{
		Currency:          app.cfg.Payment.Currency,
		AdminUser:         app.cfg.Admin.User,
		AdminPasswordHash: app.cfg.Admin.PasswordHash,
		WebhookSecret:     app.cfg.Payment.WebhookSecret,
		Terminal:          app.gateway.terminal,
		SPA:               spa,
	}, app.services)

	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	if app.broker != nil {
		app.wg.Add(1)
		go app.broker.bestsellers.Run(app.ctx, stopFn, &app.wg)
		go app.broker.salesView.Run(app.ctx)
		app.wg.Wait()
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.broker != nil {
		app.broker.bestsellers.Close()
		app.broker.producer.Close()
	}
	app.redis.Close()
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
