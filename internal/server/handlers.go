package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/hyperjump/shokugyo/internal/i18n"
	"github.com/hyperjump/shokugyo/internal/models"
	"github.com/hyperjump/shokugyo/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if query.Language == "" {
		query.Language = s.config.Search.DefaultLanguage
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.Engine().Execute(r.Context(), &query, s.config.Search.DefaultLimit, s.config.Search.MaxLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, searchStatus(response), response)
}

// searchStatus maps a search outcome to an HTTP status. A no-match is a successful
// request with an empty result set.
func searchStatus(response *models.SearchResponse) int {
	if response.Error == nil {
		return http.StatusOK
	}
	switch response.Error.Kind {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindRuntime:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("q")
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":       partial,
		"suggestions": s.Engine().Suggest(partial),
	})
}

func (s *Server) handleGetOccupation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	occ, ok := s.Engine().Lookup(code)
	if !ok {
		s.respondError(w, http.StatusNotFound, "occupation not found")
		return
	}
	s.respondJSON(w, http.StatusOK, occ)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	match, ok := s.Engine().Explain(query, code)
	if !ok {
		s.respondError(w, http.StatusNotFound, "occupation not found")
		return
	}
	s.respondJSON(w, http.StatusOK, match)
}

func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	entries := s.Engine().ListAuditLog()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
}

func (s *Server) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.Engine().ExportAuditLog()
	if err != nil {
		s.logger.Error("audit export failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-log.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleAuditSummary(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.Engine().AuditSummary())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine().Stats()
	resp := map[string]interface{}{
		"occupations":      stats.Occupations,
		"distinct_terms":   stats.DistinctTerms,
		"skill_levels":     stats.SkillLevels,
		"audit_entries":    stats.AuditEntries,
		"session_id":       stats.SessionID,
		"spelling_enabled": stats.SpellingEnabled,
		"vocabulary_docs":  stats.VocabularyDocs,
	}

	configInfo := map[string]interface{}{
		"catalog_path":     s.config.Catalog.Path,
		"catalog_watch":    s.config.Catalog.Watch,
		"snapshot_path":    s.config.Audit.SnapshotPath,
		"default_limit":    s.config.Search.DefaultLimit,
		"max_limit":        s.config.Search.MaxLimit,
		"confidence_scale": stats.ConfidenceScale,
	}
	if s.store != nil {
		diskBytes, err := storage.DiskUsageBytes(s.store)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"default":   s.config.Search.DefaultLanguage,
		"languages": i18n.SupportedLanguages(),
	})
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !i18n.IsSupported(lang) {
		s.respondError(w, http.StatusNotFound, "unsupported language")
		return
	}
	table := make(map[string]string)
	for _, key := range s.dictionary.Keys() {
		table[key] = s.dictionary.Translate(key, lang)
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"language":     lang,
		"translations": table,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
