package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies; these payloads are a handful of short
// fields.
const maxBodyBytes = 1 << 20

// decodeBody parses the JSON request body into a raw field map.
func decodeBody(r *http.Request) (map[string]any, error) {
	body := make(map[string]any)
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return body, nil
}

// respondJSON encodes v and writes it with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing to do but log.
		logEncodeError(err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Ping(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListUsers(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	user, err := s.service.CreateUser(r.Context(), body)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.ListBoards(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, boards)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	board, err := s.service.CreateBoard(r.Context(), body)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusCreated, board)
}

func (s *Server) handleListBoardUsers(w http.ResponseWriter, r *http.Request) {
	members, err := s.service.ListBoardUsers(r.Context(), chi.URLParam(r, "boardId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

func (s *Server) handleAddBoardUser(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	member, err := s.service.AddBoardUser(r.Context(), body, chi.URLParam(r, "boardId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.service.ListLists(r.Context(), chi.URLParam(r, "boardId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	list, err := s.service.CreateList(r.Context(), body, chi.URLParam(r, "boardId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusCreated, list)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.service.ListCards(r.Context(), chi.URLParam(r, "listId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	card, err := s.service.CreateCard(r.Context(), body, chi.URLParam(r, "listId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleListCardUsers(w http.ResponseWriter, r *http.Request) {
	owners, err := s.service.ListCardUsers(r.Context(), chi.URLParam(r, "cardId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, owners)
}

func (s *Server) handleAddCardUser(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	owner, err := s.service.AddCardUser(r.Context(), body, chi.URLParam(r, "cardId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusCreated, owner)
}
