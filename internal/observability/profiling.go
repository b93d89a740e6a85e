package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/sport-alerts/internal/config"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

var continuousProfiles = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockCount,
	pyroscope.ProfileBlockDuration,
}

// Profiling owns the optional pprof listener and the pyroscope uploader.
// Either part may be absent; Stop handles both.
type Profiling struct {
	debug    *http.Server
	addr     string
	profiler *pyroscope.Profiler
	logger   *logging.Logger
}

// StartProfiling brings up whatever profiling cfg enables. A failure after
// the pprof listener is bound closes it again.
func StartProfiling(cfg config.Config, logger *logging.Logger) (*Profiling, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Profiling{logger: logger}

	if cfg.PprofEnabled {
		ln, err := net.Listen("tcp", cfg.PprofAddr)
		if err != nil {
			return nil, crerr.Wrapf(err, "listen pprof on %s", cfg.PprofAddr)
		}
		p.debug = &http.Server{Handler: pprofMux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := p.debug.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("pprof server failed", "error", err)
			}
		}()
		p.addr = ln.Addr().String()
		logger.Info("pprof listening", "addr", p.addr)
	} else {
		logger.Debug("pprof disabled")
	}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName:   cfg.PyroscopeAppName,
			ServerAddress:     cfg.PyroscopeServerAddress,
			AuthToken:         cfg.PyroscopeAuthToken,
			BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
			BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
			UploadRate:        cfg.PyroscopeUploadRate,
			Tags:              map[string]string{"env": cfg.AppEnv, "service": cfg.ServiceName},
			ProfileTypes:      continuousProfiles,
		})
		if err != nil {
			_ = p.Stop(context.Background())
			return nil, crerr.Wrap(err, "start pyroscope")
		}
		p.profiler = profiler
		logger.Info("pyroscope uploading", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	} else {
		logger.Debug("pyroscope disabled")
	}

	return p, nil
}

// DebugAddr is the bound pprof address, or "" when pprof is off.
func (p *Profiling) DebugAddr() string {
	if p == nil || p.debug == nil {
		return ""
	}
	return p.addr
}

func (p *Profiling) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.debug != nil {
		if err := p.debug.Shutdown(ctx); err != nil {
			errs = append(errs, crerr.Wrap(err, "shutdown pprof"))
		}
		p.debug = nil
	}
	if p.profiler != nil {
		if err := p.profiler.Stop(); err != nil {
			errs = append(errs, crerr.Wrap(err, "stop pyroscope"))
		}
		p.profiler = nil
	}
	return errors.Join(errs...)
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	return mux
}
