package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

type createMatchRequest struct {
	SportType string `json:"sportType" validate:"required,max=100"`
	Team1     string `json:"team1" validate:"required,max=200"`
	Team2     string `json:"team2" validate:"required,max=200"`
	Date      string `json:"date" validate:"required"`
	TimeStart string `json:"timeStart" validate:"required"`
	TimeEnd   string `json:"timeEnd" validate:"required"`
	Location  string `json:"location" validate:"required,max=300"`
	MapsLink  string `json:"mapsLink" validate:"required,url"`
}

type updateMatchRequest struct {
	SportType *string `json:"sportType" validate:"omitempty,min=1,max=100"`
	Team1     *string `json:"team1" validate:"omitempty,min=1,max=200"`
	Team2     *string `json:"team2" validate:"omitempty,min=1,max=200"`
	Date      *string `json:"date"`
	TimeStart *string `json:"timeStart"`
	TimeEnd   *string `json:"timeEnd"`
	Location  *string `json:"location" validate:"omitempty,min=1,max=300"`
	MapsLink  *string `json:"mapsLink" validate:"omitempty,url"`
}

type updateMatchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type recordResultRequest struct {
	HomeScore *int   `json:"homeScore" validate:"required,min=0"`
	AwayScore *int   `json:"awayScore" validate:"required,min=0"`
	Winner    string `json:"winner" validate:"required,oneof=team1 team2 draw"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sportType := strings.TrimSpace(r.URL.Query().Get("sport"))
	items, err := h.matchService.ListBySport(ctx, principal, sportType)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "sport", sportType, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTOs(items))
}

func (h *Handler) ListPublicMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPublicMatches")
	defer span.End()

	limit, err := parseQueryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matchService.ListPublic(ctx, usecase.ListPublicMatchesInput{
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "list public matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTOs(items))
}

func (h *Handler) GetPublicMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPublicMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createMatchRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.Create(ctx, principal, usecase.MatchInput{
		SportType: req.SportType,
		Team1:     req.Team1,
		Team2:     req.Team2,
		Date:      req.Date,
		TimeStart: req.TimeStart,
		TimeEnd:   req.TimeEnd,
		Location:  req.Location,
		MapsLink:  req.MapsLink,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "sport", req.SportType, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toMatchDTO(item))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateMatchRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.Update(ctx, principal, matchID, usecase.MatchPatch{
		SportType: req.SportType,
		Team1:     req.Team1,
		Team2:     req.Team2,
		Date:      req.Date,
		TimeStart: req.TimeStart,
		TimeEnd:   req.TimeEnd,
		Location:  req.Location,
		MapsLink:  req.MapsLink,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

func (h *Handler) UpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchStatus")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateMatchStatusRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.UpdateStatus(ctx, principal, matchID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "update match status failed", "match_id", matchID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if err := h.matchService.Delete(ctx, principal, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": matchID})
}

func (h *Handler) RecordMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatchResult")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordResultRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.RecordResult(ctx, principal, usecase.RecordResultInput{
		MatchID:   matchID,
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
		Winner:    req.Winner,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match result failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

func (h *Handler) EvaluateMatchStatuses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EvaluateMatchStatuses")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !principal.HasAnyRole(user.RoleAdmin, user.RoleSportManager) {
		writeError(ctx, w, fmt.Errorf("%w: only admins and sport managers can evaluate statuses", usecase.ErrForbidden))
		return
	}

	result, err := h.sweepService.EvaluateStatuses(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "evaluate match statuses failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
