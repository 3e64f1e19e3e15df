package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/popuplink/internal/codegen"
	"github.com/fsdevblog/popuplink/internal/config"
	"github.com/fsdevblog/popuplink/internal/controllers"
	"github.com/fsdevblog/popuplink/internal/db"
	"github.com/fsdevblog/popuplink/internal/identity"
	"github.com/fsdevblog/popuplink/internal/services"
	"github.com/fsdevblog/popuplink/internal/sslcert"
	"github.com/fsdevblog/popuplink/internal/visits"
)

const (
	readHeaderTimeout = 2 * time.Second
	shutdownTimeout   = 10 * time.Second
	// Визит без активности живет полчаса, потом таймеры попапов гасятся.
	visitTTL = 30 * time.Minute
)

type App struct {
	config     config.Config
	dbServices *services.Services
	visits     *visits.Registry
	identity   identity.Provider
	jwt        *identity.JWTProvider
	Logger     *logrus.Logger
}

func New(conf config.Config) (*App, error) {
	dbServices, servicesErr := initServices(conf)
	if servicesErr != nil {
		return nil, fmt.Errorf("init services: %w", servicesErr)
	}

	var provider identity.Provider = identity.Anonymous{}
	var jwtProvider *identity.JWTProvider
	if conf.JWTSecret != "" {
		jwtProvider = identity.NewJWTProvider(conf.JWTSecret)
		provider = jwtProvider
	}

	return &App{
		config:     conf,
		dbServices: dbServices,
		visits:     visits.NewRegistry(visitTTL, conf.Logger),
		identity:   provider,
		jwt:        jwtProvider,
		Logger:     conf.Logger,
	}, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Run запускает web сервер и блокируется до SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := controllers.SetupRouter(controllers.RouterParams{
		Links:       a.dbServices.Links,
		Resolver:    a.dbServices.Resolver,
		Counters:    a.dbServices.Counters,
		Visits:      a.visits,
		Identity:    a.identity,
		JWT:         a.jwt,
		RequireAuth: a.config.RequireAuth,
		Logger:      a.Logger,
	})

	server := &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := a.listen(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.WithError(serverErr).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		a.Logger.WithError(shutdownErr).Error("graceful shutdown failed")
	}
	// Гасим таймеры открытых визитов.
	a.visits.Stop()

	return serverErr
}

// listen поднимает слушатель. В HTTPS режиме сертификат самоподписанный,
// генерируется на каждый старт.
func (a *App) listen(server *http.Server) error {
	if !a.config.EnableHTTPS {
		return server.ListenAndServe() //nolint:wrapcheck
	}

	gen, genErr := sslcert.New(serverHost(a.config.ServerAddress))
	if genErr != nil {
		return fmt.Errorf("init cert generator: %w", genErr)
	}
	pair, pairErr := gen.Keypair()
	if pairErr != nil {
		return fmt.Errorf("generate tls keypair: %w", pairErr)
	}

	server.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	}
	return server.ListenAndServeTLS("", "") //nolint:wrapcheck
}

func serverHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// initServices создает подключение к хранилищу и возвращает сервисный слой.
func initServices(conf config.Config) (*services.Services, error) {
	dbConn, connErr := db.NewConnectionFactory(db.FactoryConfig{
		StorageType:  whatIsDBStorageType(&conf),
		SQLiteDBPath: &conf.SQLitePath,
	})
	if connErr != nil {
		return nil, connErr //nolint:wrapcheck
	}

	dbServices, dbServErr := services.Factory(services.FactoryParams{
		Conn:        dbConn,
		Type:        whatIsServiceType(&conf),
		Generator:   codegen.Default(),
		BaseURL:     baseURL(&conf),
		RequireAuth: conf.RequireAuth,
		Logger:      conf.Logger,
	})
	if dbServErr != nil {
		return nil, dbServErr //nolint:wrapcheck
	}
	return dbServices, nil
}

// baseURL по умолчанию Scheme://Host запущенного сервера.
func baseURL(conf *config.Config) *url.URL {
	if conf.BaseURL != nil {
		return conf.BaseURL
	}
	scheme := "http"
	if conf.EnableHTTPS {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: conf.ServerAddress}
}

func whatIsDBStorageType(conf *config.Config) db.StorageType {
	if conf.DBType == config.DBTypeSQLite {
		return db.StorageTypeSQLite
	}
	return db.StorageTypeInMemory
}

func whatIsServiceType(conf *config.Config) services.ServiceType {
	if conf.DBType == config.DBTypeSQLite {
		return services.ServiceTypeSQLite
	}
	return services.ServiceTypeInMemory
}
