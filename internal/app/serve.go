package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	httpx "github.com/yungbote/maiopinion/internal/http"
	httpH "github.com/yungbote/maiopinion/internal/http/handlers"
	"github.com/yungbote/maiopinion/internal/observability"
	"github.com/yungbote/maiopinion/internal/reminders"
)

const shutdownTimeout = 10 * time.Second

func (a *App) RouterConfig() httpx.RouterConfig {
	serviceName := ""
	if a.Cfg.OtelEnabled {
		serviceName = a.Cfg.OtelServiceName
	}
	return httpx.RouterConfig{
		Log:             a.Log,
		ServiceName:     serviceName,
		CORSOrigins:     a.Cfg.Origins(),
		Metrics:         a.Metrics,
		MetricsHTTP:     a.Metrics.Handler(),
		HealthHandler:   httpH.NewHealthHandler(string(a.Provider.Kind)),
		DiagnoseHandler: httpH.NewDiagnoseHandler(a.Log, a.Orchestrator, a.Cfg.UploadDir, int64(a.Cfg.MaxUploadMB)<<20),
		PatientHandler:  httpH.NewPatientHandler(a.Store),
		ReminderHandler: httpH.NewReminderHandler(a.Scanner),
	}
}

// Serve runs the HTTP API and, when configured, the periodic reminder loop
// until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	shutdownOtel := observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		Enabled:     a.Cfg.OtelEnabled,
		ServiceName: a.Cfg.OtelServiceName,
		Environment: a.Cfg.LogMode,
		Endpoint:    a.Cfg.OtelEndpoint,
		Insecure:    a.Cfg.OtelInsecure,
		SampleRatio: a.Cfg.OtelSampleRatio,
	})
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownOtel(sctx)
	}()

	server := httpx.NewServer(a.Cfg.HTTPAddr, a.RouterConfig())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, shutdownTimeout)
	})
	if a.Cfg.ReminderInterval > 0 {
		lock, err := a.ScanLock(gctx)
		if err != nil {
			a.Log.Warn("redis unavailable, reminder scans run unlocked", "error", err)
			lock = reminders.NopLock{}
		}
		loop := reminders.NewLoop(a.Scanner, lock, a.Cfg.ReminderInterval, a.Log)
		g.Go(func() error {
			return loop.Run(gctx)
		})
	}
	return g.Wait()
}
