// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/colourbalance/internal/balance"
	"github.com/jmylchreest/colourbalance/internal/image"
	"github.com/jmylchreest/colourbalance/internal/pipeline"
	"github.com/jmylchreest/colourbalance/internal/version"
)

// errBadImage marks request bodies that are not a decodable image.
var errBadImage = errors.New("invalid image")

// Options configures the HTTP handler.
type Options struct {
	// MaxBodyBytes limits the request body. Defaults to 32 MiB.
	MaxBodyBytes int64
	// Timeout bounds one analysis. Defaults to 60s.
	Timeout time.Duration
	// MaxPixels limits the decoded image size. Defaults to
	// image.DefaultMaxPixels.
	MaxPixels int
}

// ErrorResponse is the body of every non-200 response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type handler struct {
	config  balance.Config
	options pipeline.Options
	server  Options
	logger  hclog.Logger
}

// NewHandler returns the HTTP handler. cfg and opts are the defaults that
// query parameters override per request.
func NewHandler(cfg balance.Config, opts pipeline.Options, srv Options, logger hclog.Logger) (http.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if srv.MaxBodyBytes <= 0 {
		srv.MaxBodyBytes = 32 << 20
	}
	if srv.MaxPixels <= 0 {
		srv.MaxPixels = image.DefaultMaxPixels
	}
	if srv.Timeout <= 0 {
		srv.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	h := &handler{config: cfg, options: opts, server: srv, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger(), h.sizeLimiter())
	r.GET("/health", h.health)
	r.POST("/analyze", h.analyze)
	return r, nil
}

func (h *handler) analyze(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.server.Timeout)
	defer cancel()

	cfg, opts, err := h.params(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data, err := readImage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	img, err := image.DecodeBytesLimit(data, h.server.MaxPixels)
	if err != nil {
		switch {
		case errors.Is(err, image.ErrEmptyImage):
			err = fmt.Errorf("%w: %w", balance.ErrEmptyInput, err)
		case errors.Is(err, image.ErrTooManyPixels):
			// Reported as 413 by statusCode.
		default:
			err = fmt.Errorf("%w: %w", errBadImage, err)
		}
		h.respondError(c, err)
		return
	}

	analyzer, err := balance.New(cfg, balance.WithLogger(h.logger.Named("balance")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	runner, err := pipeline.NewRunner(analyzer, opts, h.logger)
	if err != nil {
		h.respondError(c, err)
		return
	}

	report, err := runner.Run(ctx, img, "")
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// readImage returns the uploaded image bytes: the "image" part of a
// multipart form, or the raw body otherwise.
func readImage(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, fmt.Errorf("%w: missing image field: %w", errBadImage, err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

// params applies the query parameters to the default configuration.
func (h *handler) params(c *gin.Context) (balance.Config, pipeline.Options, error) {
	cfg, opts := h.config, h.options
	q := queryParser{c: c}

	q.intParam("clusters", &cfg.Clusters)
	q.floatParam("merge_delta", &cfg.MergeDelta)
	q.floatParam("small_threshold", &cfg.SmallThreshold)
	q.floatParam("tolerance", &cfg.Tolerance)
	q.int64Param("seed", &cfg.Seed)
	q.intParam("inits", &cfg.Inits)
	if v, ok := c.GetQuery("algorithm"); ok {
		cfg.Algorithm = balance.Algorithm(v)
	}
	q.targets("targets", &cfg.Targets)
	q.intParam("segments", &opts.Segment.Segments)
	q.floatParam("compactness", &opts.Segment.Compactness)
	q.intParam("max_dim", &opts.Preprocess.MaxDim)
	q.floatParam("sigma", &opts.Preprocess.Sigma)

	if q.err != nil {
		return cfg, opts, q.err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, opts, err
	}
	return cfg, opts, opts.Validate()
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": version.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) sizeLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.server.MaxBodyBytes)
		c.Next()
	}
}

func (h *handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"duration", time.Since(start))
	}
}

// statusCode maps pipeline errors onto HTTP status codes.
func statusCode(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, image.ErrTooManyPixels):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, balance.ErrConfiguration), errors.Is(err, errBadImage):
		return http.StatusBadRequest
	case errors.Is(err, balance.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondError(c *gin.Context, err error) {
	code := statusCode(err)
	h.logger.Warn("request failed", "path", c.Request.URL.Path, "status", code, "error", err)
	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: err.Error(),
	})
}

// queryParser reads typed query parameters, keeping the first error.
type queryParser struct {
	c   *gin.Context
	err error
}

func (q *queryParser) parse(key string, fn func(string) error) {
	v, ok := q.c.GetQuery(key)
	if !ok || q.err != nil {
		return
	}
	if err := fn(v); err != nil {
		q.err = fmt.Errorf("%w: query parameter %s: %w", balance.ErrConfiguration, key, err)
	}
}

func (q *queryParser) intParam(key string, dst *int) {
	q.parse(key, func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			*dst = n
		}
		return err
	})
}

func (q *queryParser) int64Param(key string, dst *int64) {
	q.parse(key, func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			*dst = n
		}
		return err
	})
}

func (q *queryParser) floatParam(key string, dst *float64) {
	q.parse(key, func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			*dst = f
		}
		return err
	})
}

func (q *queryParser) targets(key string, dst *[3]float64) {
	q.parse(key, func(v string) error {
		parts := strings.Split(v, ",")
		if len(parts) != 3 {
			return fmt.Errorf("want 3 comma separated values, got %d", len(parts))
		}
		var t [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return err
			}
			t[i] = f
		}
		*dst = t
		return nil
	})
}
