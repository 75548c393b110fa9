package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vaudoise/backoffice/insurance"
	"github.com/vaudoise/backoffice/logging"
	"github.com/vaudoise/backoffice/paging"
	"github.com/vaudoise/backoffice/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ClientService interface {
	Browse(ctx context.Context, query string, req *paging.PageRequest) (*paging.Page[*insurance.ClientResponse], error)
	ActiveContracts(ctx context.Context, clientID int64, filter service.ActivityFilter, req *paging.PageRequest) (*paging.Page[*insurance.ContractResponse], error)
	SumOfActiveContracts(ctx context.Context, clientID int64) (decimal.Decimal, error)
	Read(ctx context.Context, id int64) (*insurance.ClientResponse, error)
	Add(ctx context.Context, req *insurance.ClientRequest) (*insurance.ClientResponse, error)
	Update(ctx context.Context, id int64, req *insurance.ClientRequest) (*insurance.ClientResponse, error)
	Delete(ctx context.Context, id int64) (*insurance.ClientResponse, error)
}

type ContractService interface {
	Browse(ctx context.Context, clientID *int64, query string, req *paging.PageRequest) (*paging.Page[*insurance.ContractResponse], error)
	Read(ctx context.Context, id int64) (*insurance.ContractResponse, error)
	Add(ctx context.Context, req *insurance.ContractRequest) (*insurance.ContractResponse, error)
	Update(ctx context.Context, id int64, req *insurance.ContractRequest) (*insurance.ContractResponse, error)
	Delete(ctx context.Context, id int64) (*insurance.ContractResponse, error)
}

var (
	_ ClientService   = (*service.ClientService)(nil)
	_ ContractService = (*service.ContractService)(nil)
)

type Server struct {
	clients   ClientService
	contracts ContractService
	logger    *zap.Logger
	origins   []string
	health    func(ctx context.Context) error
	now       func() time.Time
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithHealthCheck makes /healthz report unavailable when check fails.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.health = check
	}
}

// WithClock sets the clock used to timestamp error responses.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(clients ClientService, contracts ContractService, opts ...Option) *Server {
	s := &Server{
		clients:   clients,
		contracts: contracts,
		logger:    zap.NewNop(),
		origins:   []string{"*"},
		health:    func(context.Context) error { return nil },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/clients", s.browseClients).Methods(http.MethodGet)
	api.HandleFunc("/clients", s.addClient).Methods(http.MethodPost)
	api.HandleFunc("/clients/{id:[0-9]+}", s.readClient).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id:[0-9]+}", s.updateClient).Methods(http.MethodPut)
	api.HandleFunc("/clients/{id:[0-9]+}", s.deleteClient).Methods(http.MethodDelete)
	api.HandleFunc("/clients/{id:[0-9]+}/contracts/active", s.activeContracts).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id:[0-9]+}/contracts/active/sum", s.sumOfActiveContracts).Methods(http.MethodGet)

	api.HandleFunc("/contracts", s.browseContracts).Methods(http.MethodGet)
	api.HandleFunc("/contracts", s.addContract).Methods(http.MethodPost)
	api.HandleFunc("/contracts/{id:[0-9]+}", s.readContract).Methods(http.MethodGet)
	api.HandleFunc("/contracts/{id:[0-9]+}", s.updateContract).Methods(http.MethodPut)
	api.HandleFunc("/contracts/{id:[0-9]+}", s.deleteContract).Methods(http.MethodDelete)

	return r
}

// Handler is the router behind CORS, request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(LogRequests(s.logger)(s.recoverer(s.Router())))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.health(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
