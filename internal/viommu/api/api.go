// Package api is the read-mostly HTTP introspection surface for viommud:
// domains, endpoints, recent faults and counters, plus an explicit
// replay-trigger endpoint. It is not part of the virtio-iommu wire
// protocol itself; that lives entirely in core.Device.Dispatch, fed by a
// transport.RequestQueue. This is the operator-facing debug API.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/viommu/internal/viommu/core"
)

// API wires the gin engine and http.Server around the device's read-mostly
// handlers and implements grace.Grace so it can run alongside the
// transport-poll loop under one shepherd.
type API struct {
	engine *gin.Engine
	server *http.Server

	domains *Domains
	faults  *Faults
}

// New builds the API, registering every route under /api, and binds an
// http.Server to addr. The server is not started until Run is called.
func New(device *core.Device, addr string) (*API, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.Default()

	a := &API{
		engine:  engine,
		domains: NewDomains(device),
		faults:  NewFaults(device),
	}

	apiGroup := engine.Group("/api")
	a.domains.RegisterRoutes(apiGroup)
	a.faults.RegisterRoutes(apiGroup)

	printRoutes(engine)

	a.server = &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	return a, nil
}

// printRoutes logs the registered method/path pairs at startup, without
// gin's default debug output (which also prints handler function names).
func printRoutes(engine *gin.Engine) {
	routes := engine.Routes()
	if len(routes) == 0 {
		return
	}

	fmt.Fprintf(os.Stdout, "\n[API Routes]\n")
	fmt.Fprintf(os.Stdout, "Method   Path\n")
	fmt.Fprintf(os.Stdout, "----------------------------\n")
	for _, route := range routes {
		fmt.Fprintf(os.Stdout, "%-8s %s\n", route.Method, route.Path)
	}
	fmt.Fprintf(os.Stdout, "\n")
}

// Run starts serving and blocks until ctx is canceled or the server fails.
func (a *API) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name implements grace.Grace.
func (a *API) Name() string {
	return "debug API"
}
