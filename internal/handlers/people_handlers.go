package handlers

import (
	"net/http"

	"organizese/internal/handlers/dto"
	"organizese/internal/logger"
	"organizese/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PeopleHandler struct {
	PeopleService PeopleService
}

func NewPeopleHandler(peopleService PeopleService) PeopleHandler {
	return PeopleHandler{PeopleService: peopleService}
}

func (h *PeopleHandler) Routes(r chi.Router) {
	r.Route("/people", func(r chi.Router) {
		r.Get("/", h.ListPeople)
		r.Post("/", h.CreatePerson)
		r.Get("/{id}", h.GetPerson)
		r.Put("/{id}/status", h.SetMemberStatus)
		r.Put("/{id}/skills", h.SetMemberSkills)
	})
	r.Route("/skills", func(r chi.Router) {
		r.Get("/", h.ListSkills)
		r.Post("/", h.CreateSkill)
	})
}

func (h *PeopleHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	var request dto.CreatePersonRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	p, err := h.PeopleService.CreatePerson(r.Context(), service.PersonInput{
		Name:         request.Name,
		Email:        request.Email,
		IsTeamMember: request.IsTeamMember,
		SkillIDs:     request.SkillIDs,
	})
	if err != nil {
		handleServiceError(w, r, err, "create_person")
		return
	}

	logger.Info("HTTP_OUT: person created",
		zap.String("person_id", p.ID.String()),
		zap.Int("http_status", http.StatusCreated))
	responseWithJSON(w, http.StatusCreated, p)
}

func (h *PeopleHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	people, err := h.PeopleService.ListPeople(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_people")
		return
	}
	responseWithJSON(w, http.StatusOK, people)
}

func (h *PeopleHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	p, err := h.PeopleService.GetPerson(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_person")
		return
	}
	responseWithJSON(w, http.StatusOK, p)
}

func (h *PeopleHandler) SetMemberStatus(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var request dto.MemberStatusRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	p, err := h.PeopleService.SetMemberStatus(r.Context(), id, request.Status)
	if err != nil {
		handleServiceError(w, r, err, "set_member_status")
		return
	}
	responseWithJSON(w, http.StatusOK, p)
}

func (h *PeopleHandler) SetMemberSkills(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var request dto.MemberSkillsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	p, err := h.PeopleService.SetMemberSkills(r.Context(), id, request.SkillIDs)
	if err != nil {
		handleServiceError(w, r, err, "set_member_skills")
		return
	}
	responseWithJSON(w, http.StatusOK, p)
}

func (h *PeopleHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	var request dto.CreateSkillRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	sk, err := h.PeopleService.CreateSkill(r.Context(), request.Name)
	if err != nil {
		handleServiceError(w, r, err, "create_skill")
		return
	}
	responseWithJSON(w, http.StatusCreated, sk)
}

func (h *PeopleHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	logger.Request(r, "HTTP_IN:")

	skills, err := h.PeopleService.ListSkills(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_skills")
		return
	}
	responseWithJSON(w, http.StatusOK, skills)
}
