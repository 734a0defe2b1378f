// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/characterforge/characterforge/internal/auth"
	"github.com/characterforge/characterforge/internal/game"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type characterResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Level        int    `json:"level"`
	ClassID      string `json:"class_id"`
	SpeciesID    string `json:"species_id"`
	Strength     int    `json:"strength"`
	Dexterity    int    `json:"dexterity"`
	Constitution int    `json:"constitution"`
	Intelligence int    `json:"intelligence"`
	Wisdom       int    `json:"wisdom"`
	Charisma     int    `json:"charisma"`
	CurrentHP    int    `json:"current_hp"`
	MaxHP        int    `json:"max_hp"`
	TempHP       int    `json:"temp_hp"`
}

type classResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	HitDie         int    `json:"hit_die"`
	PrimaryAbility string `json:"primary_ability"`
}

type speciesResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Speed       int    `json:"speed"`
	Size        string `json:"size"`
}

func toCharacterResponse(c *game.Character) characterResponse {
	return characterResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Level:        c.Level,
		ClassID:      c.ClassID.String(),
		SpeciesID:    c.SpeciesID.String(),
		Strength:     c.Abilities.Strength,
		Dexterity:    c.Abilities.Dexterity,
		Constitution: c.Abilities.Constitution,
		Intelligence: c.Abilities.Intelligence,
		Wisdom:       c.Abilities.Wisdom,
		Charisma:     c.Abilities.Charisma,
		CurrentHP:    c.CurrentHP,
		MaxHP:        c.MaxHP,
		TempHP:       c.TempHP,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

// handleLogin accepts form-encoded credentials and returns a bearer
// token on success.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, _, err := s.auth.Login(r.Context(), username, password)
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

type createCharacterRequest struct {
	Name         string `json:"name"`
	ClassID      string `json:"class_id"`
	SpeciesID    string `json:"species_id"`
	Level        int    `json:"level"`
	Strength     int    `json:"strength"`
	Dexterity    int    `json:"dexterity"`
	Constitution int    `json:"constitution"`
	Intelligence int    `json:"intelligence"`
	Wisdom       int    `json:"wisdom"`
	Charisma     int    `json:"charisma"`
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request, user *auth.User) {
	// Preset defaults survive decoding when the caller omits a field.
	req := createCharacterRequest{
		Level:        1,
		Strength:     game.DefaultAbilityScore,
		Dexterity:    game.DefaultAbilityScore,
		Constitution: game.DefaultAbilityScore,
		Intelligence: game.DefaultAbilityScore,
		Wisdom:       game.DefaultAbilityScore,
		Charisma:     game.DefaultAbilityScore,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	classID, err := ulid.Parse(req.ClassID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Class not found")
		return
	}
	speciesID, err := ulid.Parse(req.SpeciesID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Species not found")
		return
	}

	char, err := s.characters.Create(r.Context(), user.ID, game.CreateCharacterParams{
		Name:      req.Name,
		ClassID:   classID,
		SpeciesID: speciesID,
		Level:     req.Level,
		Abilities: game.AbilityScores{
			Strength:     req.Strength,
			Dexterity:    req.Dexterity,
			Constitution: req.Constitution,
			Intelligence: req.Intelligence,
			Wisdom:       req.Wisdom,
			Charisma:     req.Charisma,
		},
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCharacterResponse(char))
}

func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request, user *auth.User) {
	chars, err := s.characters.List(r.Context(), user.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]characterResponse, 0, len(chars))
	for _, c := range chars {
		resp = append(resp, toCharacterResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request, user *auth.User) {
	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		// Unparseable IDs look the same as missing ones to the caller.
		writeError(w, http.StatusNotFound, "Character not found")
		return
	}

	char, err := s.characters.Get(r.Context(), user.ID, id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCharacterResponse(char))
}

func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request, user *auth.User) {
	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Character not found")
		return
	}

	if err := s.characters.Delete(r.Context(), user.ID, id); err != nil {
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.characters.Classes(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]classResponse, 0, len(classes))
	for _, c := range classes {
		resp = append(resp, classResponse{
			ID:             c.ID.String(),
			Name:           c.Name,
			HitDie:         c.HitDie,
			PrimaryAbility: c.PrimaryAbility,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSpecies(w http.ResponseWriter, r *http.Request) {
	species, err := s.characters.Species(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]speciesResponse, 0, len(species))
	for _, sp := range species {
		resp = append(resp, speciesResponse{
			ID:          sp.ID.String(),
			Name:        sp.Name,
			Description: sp.Description,
			Speed:       sp.Speed,
			Size:        sp.Size,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
