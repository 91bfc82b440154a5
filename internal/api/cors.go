package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// CORSConfig lists the cross-origin headers sent with every response.
type CORSConfig struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       int
}

// DefaultCORSConfig allows any origin; the API sits on a device-local port.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigin:  "*",
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization", "Accept", "Last-Event-ID", RequestIDHeader},
		MaxAge:       86400,
	}
}

func (c CORSConfig) header() http.Header {
	h := http.Header{}
	h.Set("Access-Control-Allow-Origin", c.AllowOrigin)
	h.Set("Access-Control-Allow-Methods", strings.Join(c.AllowMethods, ", "))
	h.Set("Access-Control-Allow-Headers", strings.Join(c.AllowHeaders, ", "))
	h.Set("Access-Control-Expose-Headers", RequestIDHeader)
	h.Set("Access-Control-Max-Age", strconv.Itoa(c.MaxAge))
	return h
}

// Middleware decorates API responses. Preflight requests never reach it
// because huma only dispatches registered methods.
func (c CORSConfig) Middleware(ctx huma.Context, next func(huma.Context)) {
	for k, v := range c.header() {
		ctx.SetHeader(k, v[0])
	}
	next(ctx)
}

// Preflight answers OPTIONS for every path on mux.
func (c CORSConfig) Preflight(mux *http.ServeMux) {
	h := c.header()
	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		for k, v := range h {
			w.Header()[k] = v
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
