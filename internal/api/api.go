package api

import (
	"net/http"
	"time"

	"github.com/ocnetwork/walletauth/internal/challenge"
	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/ocnetwork/walletauth/internal/models"
	"github.com/ocnetwork/walletauth/internal/observability"
	"github.com/ocnetwork/walletauth/internal/storage"
	"github.com/rs/cors"
	"github.com/sebest/xff"
	"github.com/sirupsen/logrus"
)

// API is the main REST API
type API struct {
	handler  http.Handler
	config   *conf.GlobalConfiguration
	protocol *challenge.Protocol
	records  *models.SignatureRecordStore
	kv       storage.KV
	version  string

	// overrideTime can be used to override the clock used by handlers. Should only be used in tests!
	overrideTime func() time.Time
}

type Option func(*API)

// WithClock overrides the clock handlers use to stamp signature records.
func WithClock(now func() time.Time) Option {
	return func(a *API) {
		a.overrideTime = now
	}
}

func (a *API) Now() time.Time {
	if a.overrideTime != nil {
		return a.overrideTime()
	}

	return time.Now()
}

// NewAPIWithVersion creates a new REST API using the specified version
func NewAPIWithVersion(globalConfig *conf.GlobalConfiguration, protocol *challenge.Protocol, kv storage.KV, version string, opts ...Option) *API {
	api := &API{
		config:   globalConfig,
		protocol: protocol,
		kv:       kv,
		version:  version,
		records:  models.NewSignatureRecordStore(kv, globalConfig.Sweeper.Namespace, globalConfig.Auth.ValidityWindow),
	}

	for _, opt := range opts {
		opt(api)
	}

	xffmw, _ := xff.Default()
	logger := observability.NewStructuredLogger(logrus.StandardLogger())

	r := newRouter()
	r.Use(addRequestID(globalConfig))

	// request tracing should be added only when tracing or metrics is enabled
	if globalConfig.Tracing.Enabled || globalConfig.Metrics.Enabled {
		r.UseBypass(observability.RequestTracing())
	}

	r.UseBypass(xffmw.Handler)
	r.UseBypass(recoverer)

	if globalConfig.API.MaxRequestDuration > 0 {
		r.UseBypass(timeoutMiddleware(globalConfig.API.MaxRequestDuration))
	}

	r.Get("/health", api.HealthCheck)

	r.Route("/", func(r *router) {
		r.UseBypass(logger)
		r.UseBypass(limitRequestBody(int64(globalConfig.Auth.MaxMessageSize)))

		r.Post("/challenge", api.Challenge)
		r.Post("/verify", api.Verify)

		r.Route("/signatures", func(r *router) {
			r.Get("/", api.SignatureList)

			r.Route("/{key}", func(r *router) {
				r.Use(api.loadSignatureRecord)

				r.Get("/", api.SignatureGet)
				r.Delete("/", api.SignatureDelete)
			})
		})
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   globalConfig.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   globalConfig.CORS.AllAllowedHeaders([]string{"Accept", "Content-Type", "X-Client-IP", APIVersionHeaderName}),
		ExposedHeaders:   []string{ErrorCodeHeaderName, APIVersionHeaderName},
		AllowCredentials: true,
	})

	api.handler = corsHandler.Handler(r)
	return api
}

// Handler returns the http.Handler serving every route of the API.
func (a *API) Handler() http.Handler {
	return a.handler
}

type HealthCheckResponse struct {
	Version     string `json:"version"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Storage     string `json:"storage"`
}

// HealthCheck endpoint indicates if the walletauth api service and its
// signature storage are available
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) error {
	if err := a.kv.Ping(r.Context()); err != nil {
		return storageError(err)
	}

	return sendJSON(w, http.StatusOK, HealthCheckResponse{
		Version:     a.version,
		Name:        "walletauth",
		Description: "walletauth verifies wallet signatures over issued challenges",
		Storage:     a.config.DB.Driver,
	})
}
