package httpapi

import (
	"net/http"
	"time"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/services/ledger"

	"github.com/gorilla/mux"
)

type appendLogRequest struct {
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurredAt"`
	Participants  []string  `json:"participants"`
	FriendsKilled []string  `json:"friendsKilled"`
	PlayersKilled []string  `json:"playersKilled"`
	Notes         string    `json:"notes"`
	EvidenceURLs  []string  `json:"evidenceUrls"`
}

func (req appendLogRequest) entry() ledger.Entry {
	return ledger.Entry{
		Type:          domain.LogType(enumValue(req.Type)),
		OccurredAt:    req.OccurredAt,
		Participants:  req.Participants,
		FriendsKilled: req.FriendsKilled,
		PlayersKilled: req.PlayersKilled,
		Notes:         req.Notes,
		EvidenceURLs:  req.EvidenceURLs,
	}
}

// editLogRequest leaves absent fields untouched. An explicit empty list
// clears the field.
type editLogRequest struct {
	Type          *string    `json:"type"`
	OccurredAt    *time.Time `json:"occurredAt"`
	Participants  *[]string  `json:"participants"`
	FriendsKilled *[]string  `json:"friendsKilled"`
	PlayersKilled *[]string  `json:"playersKilled"`
	Notes         *string    `json:"notes"`
	EvidenceURLs  *[]string  `json:"evidenceUrls"`
}

func (req editLogRequest) patch() ledger.Patch {
	p := ledger.Patch{
		OccurredAt:    req.OccurredAt,
		Participants:  req.Participants,
		FriendsKilled: req.FriendsKilled,
		PlayersKilled: req.PlayersKilled,
		Notes:         req.Notes,
		EvidenceURLs:  req.EvidenceURLs,
	}
	if req.Type != nil {
		t := domain.LogType(enumValue(*req.Type))
		p.Type = &t
	}
	return p
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.ledger.List(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

func (s *Server) handleAppendLog(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req appendLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.ledger.Append(r.Context(), mux.Vars(r)["ref"], req.entry(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	log, err := s.ledger.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleEditLog(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req editLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.ledger.Edit(r.Context(), mux.Vars(r)["id"], req.patch(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.ledger.Delete(r.Context(), mux.Vars(r)["id"], actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.scoreboard.Compute(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleHasKills(w http.ResponseWriter, r *http.Request) {
	has, err := s.ledger.HasAnyKills(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasKills": has})
}
