package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/semsearch/internal/service"
	"github.com/w-h-a/semsearch/server"
)

type httpServer struct {
	options server.Options
	service *service.Service
	handler http.Handler
}

func (s *httpServer) Run() error {
	slog.Info("http server listening", "address", s.options.Address)
	return http.ListenAndServe(s.options.Address, s.handler)
}

// Handler exposes the composed handler so tests can drive it directly.
func (s *httpServer) Handler() http.Handler {
	return s.handler
}

func NewServer(svc *service.Service, opts ...server.Option) *httpServer {
	options := server.NewOptions(opts...)

	s := &httpServer{
		options: options,
		service: svc,
	}

	router := mux.NewRouter()
	router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/upsert", s.handleUpsert).Methods(http.MethodPost)
	router.HandleFunc("/save-reply", s.handleSaveReply).Methods(http.MethodPost)
	router.HandleFunc("/update-reply", s.handleUpdateReply).Methods(http.MethodPatch)
	router.HandleFunc("/draft-reply", s.handleDraftReply).Methods(http.MethodPost)

	var handler http.Handler = router
	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	s.handler = handler

	return s
}
