package observability

import (
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/matchday-engine/internal/config"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

// Grading and reconciliation spend their time in provider I/O and the
// worker pool, so goroutine, mutex and block profiles matter as much as CPU.
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockDuration,
}

func profilerTags(cfg config.Config) map[string]string {
	return map[string]string{
		"env":     cfg.AppEnv,
		"service": cfg.ServiceName,
		"version": cfg.ServiceVersion,
		"sports":  strings.Join(enabledSports(cfg), "+"),
	}
}

// InitPyroscope starts continuous profiling. The returned stop func is
// never nil.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("pyroscope")

	if !cfg.PyroscopeEnabled {
		logger.Info("profiling disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              profilerTags(cfg),
		ProfileTypes:      profileTypes,
	})
	if err != nil {
		return func() error { return nil }, err
	}

	logger.Info("profiling enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)
	return profiler.Stop, nil
}
