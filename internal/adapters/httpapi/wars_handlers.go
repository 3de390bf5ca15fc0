package httpapi

import (
	"context"
	"net/http"
	"strings"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/services/wars"

	"github.com/gorilla/mux"
)

type createWarRequest struct {
	EnemyFaction string              `json:"enemyFaction"`
	WarType      string              `json:"warType"`
	WarLevel     string              `json:"warLevel"`
	Regulations  *domain.Regulations `json:"regulations,omitempty"`
}

type updateWarRequest struct {
	EnemyFaction *string             `json:"enemyFaction,omitempty"`
	WarType      *string             `json:"warType,omitempty"`
	WarLevel     *string             `json:"warLevel,omitempty"`
	Regulations  *domain.Regulations `json:"regulations,omitempty"`
}

func (req updateWarRequest) patch() wars.WarPatch {
	p := wars.WarPatch{EnemyFaction: req.EnemyFaction, Regulations: req.Regulations}
	if req.WarType != nil {
		t := domain.WarType(enumValue(*req.WarType))
		p.Type = &t
	}
	if req.WarLevel != nil {
		l := domain.WarLevel(enumValue(*req.WarLevel))
		p.Level = &l
	}
	return p
}

// enumValue accepts "non-lethal" and "Non Lethal" as well as NON_LETHAL.
func enumValue(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func (s *Server) handleListWars(w http.ResponseWriter, r *http.Request) {
	status := domain.WarStatus(enumValue(r.URL.Query().Get("status")))
	list, err := s.wars.List(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"wars": list})
}

func (s *Server) handleCreateWar(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createWarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	war, err := s.wars.Create(r.Context(), wars.CreateWarInput{
		EnemyFaction: req.EnemyFaction,
		Type:         domain.WarType(enumValue(req.WarType)),
		Level:        domain.WarLevel(enumValue(req.WarLevel)),
		Regulations:  req.Regulations,
	}, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, war)
}

func (s *Server) handleGetWar(w http.ResponseWriter, r *http.Request) {
	war, err := s.wars.Get(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, war)
}

func (s *Server) handleUpdateWar(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateWarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	war, err := s.wars.Update(r.Context(), mux.Vars(r)["ref"], req.patch(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, war)
}

func (s *Server) handleActivateWar(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.wars.Activate)
}

func (s *Server) handleEndWar(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.wars.End)
}

type transitionFunc func(ctx context.Context, ref string, actor domain.Actor) (*domain.War, error)

func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	war, err := fn(r.Context(), mux.Vars(r)["ref"], actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, war)
}

func (s *Server) handleGetRegulations(w http.ResponseWriter, r *http.Request) {
	regs, err := s.wars.GlobalRegulations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

func (s *Server) handleSetRegulations(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var regs domain.Regulations
	if err := decodeJSON(w, r, &regs); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.wars.SetGlobalRegulations(r.Context(), regs, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
