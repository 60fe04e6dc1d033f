package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/DRSN-tech/shopping-list/internal/cfg"
	"github.com/DRSN-tech/shopping-list/pkg/e"
	"github.com/jimlawless/whereami"
)

// Server - HTTP-сервер списка покупок. Порт занимается в Listen, чтобы ошибка
// "адрес занят" всплывала до запуска остальных горутин приложения.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	s.listener = ln

	return nil
}

// Addr возвращает фактический адрес; при HTTP_PORT=0 порт выбирает ОС.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Serve обслуживает запросы до Stop. Штатная остановка возвращает nil.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
