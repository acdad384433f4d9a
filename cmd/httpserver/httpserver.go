// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/ledgerdelivery"
	"github.com/go-petr/pet-ledger/internal/ledgerrepo"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB      *sql.DB
	Engine  *gin.Engine
	Config  configpkg.Config
	Service *ledgerservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// NewStore returns the ledger store selected by the configuration.
//
// The postgres store needs an open connection; the memory store ignores it.
func NewStore(conn *sql.DB, config configpkg.Config) (ledgerservice.Store, error) {
	switch config.StoreBackend {
	case configpkg.StoreMemory:
		return ledgerrepo.NewRepoMem(), nil
	case configpkg.StorePostgres, "":
		if conn == nil {
			return nil, errors.New("postgres store requires a database connection")
		}

		return ledgerrepo.NewRepoPGS(conn), nil
	}

	return nil, errors.New("unknown store backend " + config.StoreBackend)
}

// NewService returns the ledger service over the configured store.
func NewService(conn *sql.DB, config configpkg.Config) (*ledgerservice.Service, error) {
	store, err := NewStore(conn, config)
	if err != nil {
		return nil, err
	}

	return ledgerservice.New(store, ledgerservice.Config{
		DefaultCurrency:   config.DefaultCurrency,
		CodeRetryAttempts: config.CodeRetryAttempts,
	}), nil
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	service, err := NewService(conn, config)
	if err != nil {
		return nil, err
	}

	handler := ledgerdelivery.NewHandler(service, config.StatementMaxLimit)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	handler.Register(engine)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := ledgerdelivery.RegisterValidators(v); err != nil {
			return nil, errors.New("cannot register ledger validators")
		}
	}

	server := &Server{
		DB:      conn,
		Engine:  engine,
		Config:  config,
		Service: service,
	}

	return server, nil
}
