// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spadev

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// ErrDocumentRootMissing signals that the document root directory with the
// built SPA bundle doesn't exist.
var ErrDocumentRootMissing = errors.New("document root missing")

// DocumentRootError reports a missing document root, telling operators how to
// fix it.
type DocumentRootError struct {
	Path string
	Err  error
}

func (e *DocumentRootError) Error() string {
	return fmt.Sprintf("directory %s not found, run 'flutter build web' first", e.Path)
}

// Unwrap makes errors.Is(err, ErrDocumentRootMissing) work, as well as
// reaching the underlying stat error, if any.
func (e *DocumentRootError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDocumentRootMissing}
	}
	return []error{ErrDocumentRootMissing, e.Err}
}

// shutdownGrace limits how long in-flight requests get to finish after
// being told to shut down.
const shutdownGrace = 2 * time.Second

// Server serves an SPA bundle from its document root.
type Server struct {
	root     string
	handler  http.Handler
	log      *zap.Logger
	addr     string
	listener net.Listener
}

// NewServer returns a new Server for the specified configuration, resolving
// the document root relative to cwd. It fails fast with a DocumentRootError
// if the document root isn't an existing directory. A nil log disables
// logging.
func NewServer(cfg Config, cwd string, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	root := cfg.DocumentRoot(cwd)
	info, err := os.Stat(root)
	if err != nil {
		return nil, &DocumentRootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &DocumentRootError{Path: root}
	}
	return &Server{
		root: root,
		handler: WithCORS(NewSPAHandler(os.DirFS(root), cfg.Index,
			WithLogger(log))),
		log:  log,
		addr: cfg.Addr(),
	}, nil
}

// DocumentRoot returns the absolute path of the document root.
func (s *Server) DocumentRoot() string { return s.root }

// Handler returns the HTTP handler serving the SPA bundle with CORS headers.
func (s *Server) Handler() http.Handler { return s.handler }

// Listen binds the TCP listener. Failing to bind, such as when the port is
// already in use, is returned as an error.
func (s *Server) Listen() error {
	if s.listener != nil {
		return errors.New("already listening")
	}
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", s.addr, err)
	}
	s.listener = l
	return nil
}

// URL returns the URL the server can be reached at locally. It is only
// valid after a successful Listen.
func (s *Server) URL() string {
	port := 0
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			port = addr.Port
		}
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

// Serve accepts and serves connections on the bound listener until ctx is
// cancelled, then stops accepting new connections and returns nil. It returns
// an error if serving fails for other reasons. Serve calls Listen first if
// necessary. The listener is gone after Serve returns, so a Server can be
// served again, on a fresh listener.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	// http.Server.Serve closes the listener when returning.
	defer func() { s.listener = nil }()
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.log),
	}
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(s.listener)
	}()
	s.log.Info("serving SPA bundle",
		zap.String("root", s.root), zap.String("url", s.URL()))

	select {
	case err := <-done:
		return fmt.Errorf("serving failed: %w", err)
	case <-ctx.Done():
	}
	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
	}
	if err := <-done; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving failed: %w", err)
	}
	return nil
}
