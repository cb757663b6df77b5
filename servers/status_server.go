// servers/status_server.go
package servers

import (
	"context"
	"net/http"
	"time"

	"adachi/interfaces"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusServer はヘルスチェックと Prometheus メトリクスを公開します。
type StatusServer struct {
	log   interfaces.Logger
	ready func() bool
	http  *http.Server
}

// NewStatusServer は新しいStatusServerインスタンスを作成します。
// ready が false の間、/healthz は 503 を返します。
func NewStatusServer(addr string, ready func() bool, log interfaces.Logger) *StatusServer {
	s := &StatusServer{log: log, ready: ready}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *StatusServer) Name() string { return "status" }

// Handler exposes the router, mainly for tests.
func (s *StatusServer) Handler() http.Handler { return s.http.Handler }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *StatusServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("ステータスサーバーを起動します", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("ステータスサーバーをシャットダウンします...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.log.Error("ステータスサーバーのシャットダウンに失敗しました", "error", err)
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *StatusServer) health(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("starting\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
