// Package profiling serves the runtime profiler over HTTP while a long
// running command works.
package profiling

import (
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/kaspanet/blobdb/infrastructure/logger"
	"github.com/kaspanet/blobdb/util/panics"
)

// NewHandler returns a mux serving the pprof endpoints under /debug/pprof/
// and redirecting everything else there.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/", http.RedirectHandler("/debug/pprof/", http.StatusSeeOther))
	return mux
}

// Start serves NewHandler on port in a new goroutine. Failing to listen is
// logged, not fatal.
func Start(port string, log *logger.Logger) {
	spawn := panics.GoroutineWrapperFunc(log)
	spawn("profiling.Start", func() {
		listenAddr := net.JoinHostPort("", port)
		log.Infof("Profile server listening on %s", listenAddr)
		log.Errorf("Profile server stopped: %s", http.ListenAndServe(listenAddr, NewHandler()))
	})
}
