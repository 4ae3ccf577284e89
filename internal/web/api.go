package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
	"github.com/contentkit/contentkit/internal/web/middleware"
)

// API serves the read-only schema query endpoints.
type API struct {
	types  host.ContentTypeService
	logger *zap.Logger
}

// NewAPI creates the query API over the given content-type service.
func NewAPI(types host.ContentTypeService, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{types: types, logger: logger}
}

// Router builds the chi router with all query routes mounted under
// basePath (e.g. "/api").
func (a *API) Router(basePath string, cors middleware.CORSConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(a.logger),
		middleware.Logging(a.logger),
		middleware.CORS(cors),
	)

	r.Route(basePath, func(r chi.Router) {
		r.Get("/ping", a.handlePing)
		r.Get("/content-types", a.handleList)
		r.Get("/content-types/{alias}", a.handleDetail)
	})

	return r
}

// handlePing is the connectivity smoke test used by dashboard extensions.
func (a *API) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	defs, err := a.types.List(r.Context())
	if err != nil {
		a.logger.Error("listing content types", zap.Error(err))
		renderError(w, http.StatusInternalServerError, "failed to list content types")
		return
	}

	summaries := make([]ContentTypeSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, toSummary(def))
	}
	_ = renderJSON(w, http.StatusOK, summaries)
}

func (a *API) handleDetail(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "alias")
	alias, err := schema.NewAlias(raw)
	if err != nil {
		renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	def, err := a.types.GetByAlias(r.Context(), alias)
	if errors.Is(err, host.ErrNotFound) {
		renderError(w, http.StatusNotFound, "unknown content type: "+raw)
		return
	}
	if err != nil {
		a.logger.Error("loading content type", zap.String("alias", raw), zap.Error(err))
		renderError(w, http.StatusInternalServerError, "failed to load content type")
		return
	}

	_ = renderJSON(w, http.StatusOK, toDetail(def))
}
