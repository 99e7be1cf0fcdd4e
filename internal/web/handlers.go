package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"matchtracker/internal/logging"
	"matchtracker/internal/match"
	"matchtracker/internal/pipeline"
)

// ImportResponse is the JSON body returned by the import endpoint. The
// structured issues carry row/field/severity for programmatic use; the
// rendered messages are ready for direct display.
type ImportResponse struct {
	Valid     bool                    `json:"valid"`
	Committed bool                    `json:"committed"`
	Records   []match.Record          `json:"records"`
	Errors    []pipeline.Issue        `json:"errors"`
	Warnings  []pipeline.Issue        `json:"warnings"`
	Messages  ImportMessages          `json:"messages"`
	Stats     pipeline.StructureStats `json:"stats"`
}

// ImportMessages are the display-form issue strings.
type ImportMessages struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// handleImport validates an uploaded match file (CSV or JSON) and, when it
// is clean, replaces the stored collection with the imported records.
// Invalid files come back with 422 and the full issue list; nothing is
// committed.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize))
	if err != nil {
		respondError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit", s.cfg.Import.MaxFileSize))
		return
	}

	var result pipeline.Result
	if isJSONImport(r) {
		result = pipeline.ProcessImportJSON(body, s.cards)
	} else {
		result = pipeline.ProcessImport(string(body), s.cards)
	}

	if len(result.Data) > s.cfg.Import.MaxRecords {
		respondError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("import exceeds the %d record limit", s.cfg.Import.MaxRecords))
		return
	}

	resp := ImportResponse{
		Valid:    result.Valid,
		Records:  result.Data,
		Errors:   result.Errors,
		Warnings: result.Warnings,
		Messages: ImportMessages{
			Errors:   pipeline.Render(result.Errors),
			Warnings: pipeline.Render(result.Warnings),
		},
		Stats: result.Stats,
	}

	if !result.Valid {
		respondJSON(w, r, http.StatusUnprocessableEntity, resp)
		return
	}

	if err := s.store.ReplaceAll(ctx, result.Data); err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to store imported records")
		return
	}
	resp.Committed = true

	logging.FromContext(r.Context()).Info("import committed",
		"records", len(result.Data),
		"warnings", len(result.Warnings),
	)
	respondJSON(w, r, http.StatusOK, resp)
}

// handleValidate runs the header-only structure check on an uploaded CSV
// without touching the stored collection. Used as a cheap pre-flight
// before a full import.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize))
	if err != nil {
		respondError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit", s.cfg.Import.MaxFileSize))
		return
	}

	result := pipeline.ValidateCSVStructure(string(body))
	respondJSON(w, r, http.StatusOK, result)
}

// RecordsResponse is the JSON body for collection reads.
type RecordsResponse struct {
	Records []match.Record `json:"records"`
	Count   int            `json:"count"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to load records")
		return
	}
	respondJSON(w, r, http.StatusOK, RecordsResponse{Records: records, Count: len(records)})
}

// handleAddRecord validates one record and appends it to the collection.
// The body is a single JSON record; it goes through the same repair and
// validation stages as an imported file.
func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize))
	if err != nil {
		respondError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		respondError(w, r, http.StatusBadRequest, "expected a single JSON match record")
		return
	}

	result := pipeline.ProcessImportJSON(append(append([]byte("["), body...), ']'), s.cards)
	if !result.Valid {
		respondJSON(w, r, http.StatusUnprocessableEntity, ImportResponse{
			Valid:    false,
			Records:  result.Data,
			Errors:   result.Errors,
			Warnings: result.Warnings,
			Messages: ImportMessages{
				Errors:   pipeline.Render(result.Errors),
				Warnings: pipeline.Render(result.Warnings),
			},
		})
		return
	}

	// Reject an ID collision with the stored collection.
	stored, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to load records")
		return
	}
	rec := result.Data[0]
	for _, existing := range stored {
		if existing.ID == rec.ID {
			respondError(w, r, http.StatusConflict,
				fmt.Sprintf("a record with id %s already exists", rec.ID))
			return
		}
	}

	if err := s.store.Add(r.Context(), rec); err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to store record")
		return
	}
	respondJSON(w, r, http.StatusCreated, rec)
}

// handleRecalculatePoints rewrites the auto-scored points of the whole
// collection as a cumulative chronological total and stores the result.
func (s *Server) handleRecalculatePoints(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to load records")
		return
	}

	recalculated := match.RecalculatePoints(records)
	if err := s.store.ReplaceAll(r.Context(), recalculated); err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to store recalculated records")
		return
	}
	respondJSON(w, r, http.StatusOK, RecordsResponse{Records: recalculated, Count: len(recalculated)})
}

// handleExport streams the collection as a downloadable CSV file with the
// metadata comment block.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to load records")
		return
	}
	if len(records) == 0 {
		respondError(w, r, http.StatusNotFound, "no match data to export")
		return
	}

	user := r.URL.Query().Get("user")
	if user == "" {
		user = s.cfg.Export.DefaultUser
	}

	now := time.Now()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", pipeline.ExportFileName(now)))

	meta := pipeline.ExportMeta{User: user, DownloadedAt: now}
	if err := pipeline.Export(w, records, meta); err != nil {
		logging.FromContext(r.Context()).Error("export write failed", "error", err)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to load records")
		return
	}
	respondJSON(w, r, http.StatusOK, match.CalculateStats(records, s.cards))
}

// handleListCards serves the card catalog, either flat or grouped by
// element with ?grouped=true.
func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		respondJSON(w, r, http.StatusOK, s.cards.ByElement())
		return
	}
	respondJSON(w, r, http.StatusOK, s.cards.Entries())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": count,
		"cards":   s.cards.Len(),
	})
}

// isJSONImport reports whether the import request carries JSON rather
// than CSV, by content type or explicit format override.
func isJSONImport(r *http.Request) bool {
	if f := r.URL.Query().Get("format"); f != "" {
		return strings.EqualFold(f, "json")
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
