package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yu010101/picohub/notion"
	"github.com/yu010101/picohub/rakuten"
)

const msgSkillUnavailable = "skill is not configured"

// --- weather ---

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if s.skills.Weather == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}
	result, err := s.skills.Weather.GetForecast(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUmbrella(w http.ResponseWriter, r *http.Request) {
	if s.skills.Weather == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}
	result, err := s.skills.Weather.CheckUmbrella(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLaundry(w http.ResponseWriter, r *http.Request) {
	if s.skills.Weather == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}
	result, err := s.skills.Weather.CheckLaundry(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHeatstroke(w http.ResponseWriter, r *http.Request) {
	if s.skills.Weather == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}
	result, err := s.skills.Weather.CheckHeatstroke(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// --- line ---

func (s *Server) handleLineWebhook(w http.ResponseWriter, r *http.Request) {
	if s.skills.Line == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if !s.skills.Line.ValidateSignature(body, r.Header.Get("X-Line-Signature")) {
		respondError(w, http.StatusForbidden, "invalid signature")
		return
	}

	events, err := s.skills.Line.ParseWebhook(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// --- notion ---

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	if s.skills.Notion == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}

	var req struct {
		ParentID string `json:"parent_id"`
		Title    string `json:"title"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.skills.Notion.CreatePage(r.Context(), req.ParentID, req.Title, req.Content)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReadPage(w http.ResponseWriter, r *http.Request) {
	if s.skills.Notion == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}
	result, err := s.skills.Notion.ReadPage(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	if s.skills.Notion == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}

	var req struct {
		Properties []struct {
			Name  string      `json:"name"`
			Value interface{} `json:"value"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	properties := make([]notion.Property, 0, len(req.Properties))
	for _, p := range req.Properties {
		properties = append(properties, notion.Property{Name: p.Name, Value: p.Value})
	}

	result, err := s.skills.Notion.AddDatabaseRecord(r.Context(), chi.URLParam(r, "databaseID"), properties)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	if s.skills.Notion == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}
	result, err := s.skills.Notion.GenerateDailyReport(r.Context(), chi.URLParam(r, "databaseID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// --- rakuten ---

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.skills.Rakuten == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}

	opts := rakuten.SearchOptions{GenreID: r.URL.Query().Get("genre")}
	if v := r.URL.Query().Get("min_price"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "min_price must be an integer")
			return
		}
		opts.MinPrice = &p
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "max_price must be an integer")
			return
		}
		opts.MaxPrice = &p
	}

	result, err := s.skills.Rakuten.Search(r.Context(), r.URL.Query().Get("keyword"), opts)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if s.skills.Rakuten == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}
	result, err := s.skills.Rakuten.ComparePrices(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	if s.skills.Rakuten == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}
	result, err := s.skills.Rakuten.GetPointRate(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// --- mercari ---

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	if s.skills.Mercari == nil {
		respondError(w, http.StatusServiceUnavailable, msgSkillUnavailable)
		return
	}

	var req struct {
		ItemName  string   `json:"item_name"`
		Condition string   `json:"condition"`
		Brand     string   `json:"brand"`
		Photos    []string `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.skills.Mercari.GenerateListing(req.ItemName, req.Condition, req.Brand, req.Photos)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}
