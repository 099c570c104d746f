package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Run: ctx がキャンセルされるまで待ち受け、その後 graceful shutdown
func Run(ctx context.Context, app *App, handler http.Handler) error {
	cfg := app.Config
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLSEnabled() {
			// TLS設定: config/tls/<mode>/ 配下
			dir := filepath.Join("config", "tls", cfg.Mode)
			certFile := filepath.Join(dir, cfg.Certificate.Cert)
			keyFile := filepath.Join(dir, cfg.Certificate.Key)
			app.Log.WithFields(logrus.Fields{"addr": srv.Addr, "tls": true}).Info("listening")
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			app.Log.WithFields(logrus.Fields{"addr": srv.Addr, "tls": false}).Info("listening")
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.Log.Info("shutting down...")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
