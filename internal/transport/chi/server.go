// Package chi exposes the query service over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tilemart/tilequery/internal/domain"
	answeruc "github.com/tilemart/tilequery/internal/usecase/answer"
	cataloguc "github.com/tilemart/tilequery/internal/usecase/catalog"
	healthuc "github.com/tilemart/tilequery/internal/usecase/health"
	salesuc "github.com/tilemart/tilequery/internal/usecase/sales"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server wires the use-case services to HTTP handlers.
type Server struct {
	answers       *answeruc.Service
	catalog       *cataloguc.Service
	sales         *salesuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. sales may be nil when no sales API
// is configured.
func NewServer(
	answers *answeruc.Service,
	catalog *cataloguc.Service,
	sales *salesuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		answers: answers,
		catalog: catalog,
		sales:   sales,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, codeCatalogUnavailable),
		sentinelHandler(domain.ErrTileNotFound, http.StatusNotFound, codeTileNotFound),
		sentinelHandler(domain.ErrNoTilesMatch, http.StatusNotFound, codeNoTilesMatch),
		sentinelHandler(domain.ErrSalesDataUnavailable, http.StatusBadGateway, codeSalesDataUnavailable),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/chat", s.handleChat)
	r.Post("/size", s.handleSizes)
	r.Post("/tiles", s.handleTiles)
	r.Post("/name", s.handleName)
	r.Post("/general", s.handleGeneral)
	r.Get("/sales", s.handleSales)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response         string      `json:"response"`
	Tiles            []rankedDTO `json:"tiles"`
	SuggestedOptions []string    `json:"suggested_options,omitempty"`
}

// handleChat answers a free-text query via the search pipeline or the oracle.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Message is required")
		return
	}

	ans := s.answers.Answer(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, chatResponse{
		Response:         ans.Text,
		Tiles:            rankedToDTO(ans.Tiles),
		SuggestedOptions: ans.SuggestedOptions,
	})
}

type sizeRequest struct {
	Category string `json:"category"`
}

// handleSizes lists the available sizes for a category.
func (s *Server) handleSizes(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Category is required")
		return
	}

	sizes, err := s.catalog.Sizes(r.Context(), req.Category)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sizes": sizes})
}

type tilesRequest struct {
	Category string `json:"category"`
	Size     string `json:"size"`
	Material string `json:"material"`
	Finish   string `json:"finish"`
	Design   string `json:"design"`
}

// handleTiles returns products matching a structured filter.
func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	var req tilesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	tiles, err := s.catalog.Tiles(r.Context(), cataloguc.Filter{
		Category: req.Category,
		Size:     req.Size,
		Material: req.Material,
		Finish:   req.Finish,
		Design:   req.Design,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]productDTO, len(tiles))
	for i, t := range tiles {
		items[i] = productToDTO(t)
	}
	writeJSON(w, http.StatusOK, map[string][]productDTO{"tiles": items})
}

type textRequest struct {
	Text string `json:"text"`
}

type lookupResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    *productDTO `json:"data"`
}

// handleName looks up a single tile by a name fragment. A miss is a regular
// not_found response, not an HTTP error.
func (s *Server) handleName(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Query text is required")
		return
	}

	writeJSON(w, http.StatusOK, s.lookup(r, req.Text))
}

func (s *Server) lookup(r *http.Request, text string) lookupResponse {
	p, err := s.catalog.LookupByName(r.Context(), text)
	switch {
	case err == nil:
		dto := productToDTO(p)
		return lookupResponse{Status: "success", Message: "Tile information found", Data: &dto}
	case errors.Is(err, domain.ErrTileNotFound):
		return lookupResponse{Status: "not_found", Message: "No matching tile found"}
	default:
		return lookupResponse{Status: "unavailable", Message: answeruc.UnavailableMessage}
	}
}

type generalResponse struct {
	EndpointUsed  string `json:"endpoint_used"`
	Response      any    `json:"response"`
	OriginalQuery string `json:"original_query"`
}

// handleGeneral routes mixed free-text requests: texts mentioning a known
// tile name go to the name lookup, everything else to chat.
func (s *Server) handleGeneral(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Query text is required")
		return
	}

	if s.catalog.MentionsKnownName(r.Context(), req.Text) {
		writeJSON(w, http.StatusOK, generalResponse{
			EndpointUsed:  "name",
			Response:      s.lookup(r, req.Text),
			OriginalQuery: req.Text,
		})
		return
	}

	ans := s.answers.Answer(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, generalResponse{
		EndpointUsed: "chat",
		Response: chatResponse{
			Response:         ans.Text,
			Tiles:            rankedToDTO(ans.Tiles),
			SuggestedOptions: ans.SuggestedOptions,
		},
		OriginalQuery: req.Text,
	})
}

// handleSales serves the cached sales payload.
func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	if s.sales == nil {
		writeError(w, http.StatusNotFound, codeSalesDataUnavailable, "sales data is not configured")
		return
	}

	payload, err := s.sales.Get(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleHealth reports aggregated component health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleDomainError maps a domain error to an HTTP response via the ordered
// handler list, defaulting to 500.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("Unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}
