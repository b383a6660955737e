// Package viommu wires together the translation core, its SQLite
// persistence, the debug API, and the in-memory transport demo into a
// single grace-managed server.
package viommu

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jimmicro/grace"
	"github.com/jimyag/viommu/internal/viommu/api"
	"github.com/jimyag/viommu/internal/viommu/config"
	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/jimyag/viommu/internal/viommu/persistence"
	"github.com/jimyag/viommu/internal/viommu/transport"
	"github.com/rs/zerolog"
)

// Server owns the device, its persistence store, its debug API, and the
// demo request-processing loop, and sequences them under one shepherd.
type Server struct {
	cfg    *config.Config
	device *core.Device
	store  *persistence.Store
	api    *api.API
	reqs   *transport.MemRequestQueue
}

// New builds a Server from cfg: opens the snapshot store, restores any
// prior snapshot, constructs the device, and builds the debug API.
func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	dbPath := filepath.Join(cfg.DataDir, "viommu.db")
	store, err := persistence.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open persistence store: %w", err)
	}
	logger.Info().Str("db_path", dbPath).Msg("persistence store opened")

	events := transport.NewMemEventQueue(64)
	device := core.NewDevice(core.DeviceConfig{
		PageSizeMask: cfg.PageSizeMask,
		InputRange:   core.Interval{Low: 0, High: ^uint64(0)},
		DomainStart:  cfg.DomainStart,
		DomainEnd:    cfg.DomainEnd,
		ProbeSize:    cfg.ProbeSize,
		Features:     cfg.Features(),
		Reserved:     cfg.Reserved,
	}, core.NewEventSink(events), logger)

	snap, err := store.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	device.Restore(snap)
	logger.Info().Int("domains", len(snap.Domains)).Int("endpoints", len(snap.Endpoints)).Msg("snapshot restored")

	apiInstance, err := api.New(device, cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("create debug API: %w", err)
	}

	return &Server{
		cfg:    cfg,
		device: device,
		store:  store,
		api:    apiInstance,
		reqs:   transport.NewMemRequestQueue(64),
	}, nil
}

// Run starts the debug API and the request-processing loop side by side
// under a grace.Shepherd, blocking until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	services := []grace.Grace{
		s.api,
		&requestLoop{device: s.device, reqs: s.reqs},
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return s.persistFinalSnapshot(ctx)
}

// Shutdown stops the debug API and persists the device's final state.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.api.Shutdown(ctx); err != nil {
		return err
	}
	return s.persistFinalSnapshot(ctx)
}

func (s *Server) persistFinalSnapshot(ctx context.Context) error {
	return s.store.Save(ctx, s.device.Snapshot())
}

// Name implements grace.Grace.
func (s *Server) Name() string {
	return "viommud"
}

// requestLoop drives the core request processor off the in-memory demo
// transport; a real deployment would substitute a virtqueue-backed
// transport.RequestQueue here instead.
type requestLoop struct {
	device *core.Device
	reqs   *transport.MemRequestQueue
}

func (r *requestLoop) Run(ctx context.Context) error {
	err := r.device.Serve(ctx, r.reqs)
	if err == context.Canceled || err == transport.ErrClosed {
		return nil
	}
	return err
}

func (r *requestLoop) Shutdown(ctx context.Context) error {
	r.reqs.Close()
	return nil
}

func (r *requestLoop) Name() string {
	return "request processor"
}

// zerologLogger implements grace.Logger.
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
