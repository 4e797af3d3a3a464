package telemetry

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig holds the Pyroscope continuous-profiling settings. The
// basic-auth pair is only needed against Grafana Cloud.
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string

	ProfileCPU        bool
	ProfileMemory     bool // alloc and in-use space
	ProfileGoroutines bool
	ProfileMutex      bool
	ProfileBlock      bool

	MutexProfileFraction int // defaults to 5 when mutex profiling is on
	BlockProfileRate     int // defaults to 5 when block profiling is on
	DisableGCRuns        bool
}

func (cfg ProfilerConfig) profileTypes() []pyroscope.ProfileType {
	var out []pyroscope.ProfileType
	for _, group := range []struct {
		on    bool
		types []pyroscope.ProfileType
	}{
		{cfg.ProfileCPU, []pyroscope.ProfileType{pyroscope.ProfileCPU}},
		{cfg.ProfileMemory, []pyroscope.ProfileType{pyroscope.ProfileAllocSpace, pyroscope.ProfileInuseSpace}},
		{cfg.ProfileGoroutines, []pyroscope.ProfileType{pyroscope.ProfileGoroutines}},
		{cfg.ProfileMutex, []pyroscope.ProfileType{pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration}},
		{cfg.ProfileBlock, []pyroscope.ProfileType{pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration}},
	} {
		if group.on {
			out = append(out, group.types...)
		}
	}
	return out
}

// Profiler owns the Pyroscope session lifecycle. A disabled config yields a
// no-op profiler so callers can defer Stop unconditionally.
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	enabled  bool
	stopOnce sync.Once
}

// NewProfiler starts a Pyroscope session when cfg.Enabled is set.
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return &Profiler{logger: logger}, nil
	}

	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("profiler server address is required when profiling is enabled")
	}
	if cfg.ApplicationName == "" {
		return nil, fmt.Errorf("profiler application name is required when profiling is enabled")
	}

	if cfg.ProfileMutex {
		fraction := cfg.MutexProfileFraction
		if fraction <= 0 {
			fraction = 5
		}
		runtime.SetMutexProfileFraction(fraction)
	}
	if cfg.ProfileBlock {
		rate := cfg.BlockProfileRate
		if rate <= 0 {
			rate = 5
		}
		runtime.SetBlockProfileRate(rate)
	}

	types := cfg.profileTypes()
	if len(types) == 0 {
		logger.Warn("No profile types enabled, profiler will collect nothing")
	}

	tags := map[string]string{}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		tags["hostname"] = hostname
	}

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.ApplicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            pyroscopeLogger{logger.Named("pyroscope")},
		Tags:              tags,
		ProfileTypes:      types,
		DisableGCRuns:     cfg.DisableGCRuns,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	logger.Info("Continuous profiling started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName),
		zap.Int("profile_types", len(types)),
	)
	return &Profiler{profiler: session, logger: logger, enabled: true}, nil
}

// IsEnabled reports whether a live Pyroscope session is attached.
func (p *Profiler) IsEnabled() bool {
	return p.enabled && p.profiler != nil
}

// Stop flushes pending profiles and ends the session. Safe to call more
// than once. The Pyroscope SDK has no context-aware shutdown; it relies on
// its own internal upload timeouts.
func (p *Profiler) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		if p.profiler == nil {
			return
		}
		if stopErr := p.profiler.Stop(); stopErr != nil {
			err = fmt.Errorf("stop pyroscope profiler: %w", stopErr)
			return
		}
		p.logger.Info("Continuous profiling stopped")
	})
	return err
}

// pyroscopeLogger adapts zap to the pyroscope.Logger interface.
type pyroscopeLogger struct {
	logger *zap.Logger
}

func (l pyroscopeLogger) Infof(format string, args ...any) {
	l.logger.Sugar().Infof(format, args...)
}

func (l pyroscopeLogger) Debugf(format string, args ...any) {
	l.logger.Sugar().Debugf(format, args...)
}

func (l pyroscopeLogger) Errorf(format string, args ...any) {
	l.logger.Sugar().Errorf(format, args...)
}
