package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/matchday-engine/internal/config"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// ShutdownFunc flushes and stops an exporter started at boot.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// enabledSports lists the sports this process reconciles, in a stable order.
func enabledSports(cfg config.Config) []string {
	out := make([]string, 0, 2)
	if cfg.Football.Enabled {
		out = append(out, "football")
	}
	if cfg.Basketball.Enabled {
		out = append(out, "basketball")
	}
	return out
}

// InitUptrace exports traces to Uptrace. Metrics stay on the Prometheus
// endpoint, so the OTLP metric pipeline is left off.
func InitUptrace(cfg config.Config, logger *logging.Logger) (ShutdownFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("uptrace")

	switch {
	case !cfg.UptraceEnabled:
		logger.Info("tracing export disabled", "reason", "UPTRACE_ENABLED=false")
		return noopShutdown, nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("tracing export disabled", "reason", "UPTRACE_DSN empty")
		return noopShutdown, nil
	}

	sports := enabledSports(cfg)
	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithMetricsEnabled(false),
		uptrace.WithResourceAttributes(
			attribute.StringSlice("matchday.sports", sports),
			attribute.String("matchday.store_driver", cfg.StoreDriver),
		),
	)

	logger.Info("tracing export enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"sports", sports,
	)
	return uptrace.Shutdown, nil
}
