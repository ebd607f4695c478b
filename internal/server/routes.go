package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/fossillogic/jellyfish/internal/chain"
)

// getOrLoadChain returns the cached chain for path, loading it from disk
// (or initializing a fresh one) on first access.
func (s *Server) getOrLoadChain(path string) (*chain.Chain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.chains[path]; ok {
		return c, nil
	}

	c, err := chain.Load(path)
	if err != nil {
		c = chain.New(chain.NewDeviceID())
	}
	s.chains[path] = c
	return c, nil
}

func pathParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "path")
	return url.QueryUnescape(raw)
}

func (s *Server) handleListChains(w http.ResponseWriter, r *http.Request) {
	entries, err := s.cat.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type learnRequest struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	path, err := pathParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad path")
		return
	}

	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.Input == "" || req.Output == "" {
		writeError(w, http.StatusBadRequest, "input and output are required")
		return
	}

	c, err := s.getOrLoadChain(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	traced := chain.NewTraced(chain.NewInstrumented(c, s.metrics))
	if err := traced.LearnCtx(r.Context(), req.Input, req.Output); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	if err := c.Save(path); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := s.cat.Upsert(path, c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"learned": true})
}

func (s *Server) handleReason(w http.ResponseWriter, r *http.Request) {
	path, err := pathParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad path")
		return
	}
	input := r.URL.Query().Get("input")
	if input == "" {
		writeError(w, http.StatusBadRequest, "input query param is required")
		return
	}

	c, err := s.getOrLoadChain(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	traced := chain.NewTraced(chain.NewInstrumented(c, s.metrics))
	output, confidence, block, ok := traced.ReasonVerboseCtx(r.Context(), input)
	resp := map[string]any{"output": output, "matched": ok}
	if ok {
		resp["confidence"] = confidence
		resp["usage_count"] = block.UsageCount
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChainStats(w http.ResponseWriter, r *http.Request) {
	path, err := pathParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad path")
		return
	}

	c, err := s.getOrLoadChain(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":              c.ChainStats(),
		"trust_score":        c.TrustScore(),
		"knowledge_coverage": c.KnowledgeCoverage(),
	})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.reg.Models))
	for name := range s.reg.Models {
		names = append(names, name)
	}
	writeJSON(w, http.StatusOK, names)
}
