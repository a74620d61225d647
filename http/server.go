package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kernel-auth/sigverify"
	"github.com/kernel-auth/sigverify/types"
)

// ServerOption configures a Server
type ServerOption func(*Server)

// WithLogger sets the request logger
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves the gatherer's metrics on RouteMetrics
func WithGatherer(gatherer prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithNetwork names the network in health responses
func WithNetwork(network string) ServerOption {
	return func(s *Server) {
		s.network = network
	}
}

// WithRequestTimeout bounds each request
func WithRequestTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// Server serves verification requests
type Server struct {
	service  Service
	engine   *gin.Engine
	logger   zerolog.Logger
	gatherer prometheus.Gatherer
	network  string
	timeout  time.Duration
}

// NewServer creates a Server around service
func NewServer(service Service, opts ...ServerOption) *Server {
	s := &Server{
		service: service,
		logger:  zerolog.Nop(),
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET(RouteHealth, s.handleHealth)
	r.GET(RouteAccount, s.handleAccount)
	r.POST(RouteFormat, s.handleFormat)
	r.POST(RouteVerify, s.handleVerify)
	if s.gatherer != nil {
		r.GET(RouteMetrics, gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	s.engine = r
	return s
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", addr).Msg("verification server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down verification server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  "ok",
		Version: sigverify.Version,
		Network: s.network,
		Factory: s.service.Factory().Hex(),
	})
}

func (s *Server) handleAccount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	identity := c.Param("identity")
	if identity == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "identity is required"})
		return
	}

	account, deployed, err := s.service.Account(ctx, identity)
	if err != nil {
		s.abortWithVerifyError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewAccountResponse(account, deployed))
}

func (s *Server) handleFormat(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "failed to read request body"})
		return
	}
	if err := types.ValidateFormatRequest(body); err != nil {
		s.abortWithSchemaError(c, err)
		return
	}

	var req types.FormatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}
	raw, err := req.SignatureBytes()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	formatted, err := s.service.Format(ctx, req.Identity, raw)
	if err != nil {
		s.abortWithVerifyError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewFormatResponse(formatted))
}

func (s *Server) handleVerify(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "failed to read request body"})
		return
	}
	if err := types.ValidateVerifyRequest(body); err != nil {
		s.abortWithSchemaError(c, err)
		return
	}

	var req types.VerifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}
	digest, err := req.Digest()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}
	signature, err := req.SignatureBytes()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	// Pre-formatted signature against an explicit address
	if req.Address != "" {
		address := common.HexToAddress(req.Address)
		result, err := s.service.VerifySignature(ctx, address, digest, signature)
		if err != nil {
			s.abortWithVerifyError(c, err)
			return
		}
		c.JSON(http.StatusOK, types.NewVerifyResponse(result, address, digest))
		return
	}

	verification, err := s.service.Verify(ctx, req.Identity, digest, signature)
	if err != nil {
		s.abortWithVerifyError(c, err)
		return
	}
	resp := types.NewVerifyResponse(&verification.VerificationResult, verification.Account, digest)
	resp.Identity = verification.Identity
	resp.Deployed = &verification.Deployed
	c.JSON(http.StatusOK, resp)
}

func (s *Server) abortWithSchemaError(c *gin.Context, err error) {
	resp := types.ErrorResponse{Error: "invalid request body"}
	var schemaErr *types.SchemaError
	if errors.As(err, &schemaErr) {
		resp.Details = schemaErr.Errors
	}
	c.JSON(http.StatusBadRequest, resp)
}

// abortWithVerifyError maps infrastructure failures onto gateway statuses
func (s *Server) abortWithVerifyError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	resp := types.ErrorResponse{Error: err.Error()}

	var verr *sigverify.VerifyError
	if errors.As(err, &verr) {
		resp.Reason = verr.Reason
		if verr.Reason == sigverify.ReasonTimeout {
			status = http.StatusGatewayTimeout
		}
	} else {
		status = http.StatusInternalServerError
	}
	c.JSON(status, resp)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(started)).
			Msg("request")
	}
}
