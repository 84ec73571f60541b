package profiling

import (
	"fmt"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/pestpro/pestpro-api/config"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"go.uber.org/zap"
)

var allProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

var profileTypeNames = map[string][]pyroscope.ProfileType{
	"cpu":         {pyroscope.ProfileCPU},
	"alloc_space": {pyroscope.ProfileAllocSpace},
	"inuse_space": {pyroscope.ProfileInuseSpace},
	"goroutines":  {pyroscope.ProfileGoroutines},
	"mutex":       {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":       {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// Start begins continuous profiling when enabled and returns a stop func.
// The stop func is always non-nil when err is nil.
func Start(cfg config.ProfilingConfig, serviceName, environment, version string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}
	interval := time.Duration(cfg.UploadIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}

	types, err := profileTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: serviceName,
		ServerAddress:   endpoint,
		UploadRate:      interval,
		ProfileTypes:    types,
		Tags:            tags(environment, version),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling started",
		zap.String("application", serviceName),
		zap.String("endpoint", endpoint),
		zap.Duration("upload_interval", interval),
	)

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Error("Failed to stop profiler", zap.Error(stopErr))
		}
	}, nil
}

// profileTypes parses a comma-separated list such as "cpu,mutex".
func profileTypes(value string) ([]pyroscope.ProfileType, error) {
	if strings.TrimSpace(value) == "" {
		return allProfileTypes, nil
	}

	var out []pyroscope.ProfileType
	seen := map[pyroscope.ProfileType]bool{}
	for _, name := range strings.Split(value, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		mapped, ok := profileTypeNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown profile type %q", name)
		}
		for _, t := range mapped {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	if len(out) == 0 {
		return allProfileTypes, nil
	}
	return out, nil
}

func tags(environment, version string) map[string]string {
	t := map[string]string{}
	if environment != "" {
		t["environment"] = environment
	}
	if version != "" {
		t["version"] = version
	}
	return t
}
