package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/imadgeboyega/kiekky-matching/internal/auth"
	"github.com/imadgeboyega/kiekky-matching/internal/common/logger"
	"github.com/imadgeboyega/kiekky-matching/internal/common/utils"
	"github.com/imadgeboyega/kiekky-matching/internal/geo"
	"github.com/imadgeboyega/kiekky-matching/internal/likes"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	query := MatchQuery{
		Page:    queryInt(q.Get("page"), 1),
		Limit:   queryInt(q.Get("limit"), 0),
		Refresh: queryBool(q.Get("refreshMode")),
		Filters: Filters{
			Location:      queryCoordinate(q.Get("lat"), q.Get("lng")),
			OnlineOnly:    queryBool(q.Get("onlineOnly")),
			MaxDistanceKm: queryFloat(q.Get("maxDistance")),
			MinAge:        queryInt(q.Get("minAge"), 0),
			MaxAge:        queryInt(q.Get("maxAge"), 0),
		},
	}

	page, err := h.service.GetMatches(r.Context(), viewerID, query)
	if err != nil {
		h.respondError(w, r, err, "get_matches", viewerID, 0)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, page)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Like(r.Context(), viewerID, req.MatchID, req.Action)
	if err != nil {
		h.respondError(w, r, err, req.Action, viewerID, req.MatchID)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetLikedUsers(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ids, err := h.service.ListLiked(r.Context(), viewerID)
	if err != nil {
		h.respondError(w, r, err, "list_liked", viewerID, 0)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, LikedUsersResponse{LikedUsers: ids})
}

func (h *Handler) GetMutualLikes(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	page, err := h.service.ListMutual(r.Context(), viewerID, queryInt(q.Get("page"), 1), queryInt(q.Get("limit"), 0))
	if err != nil {
		h.respondError(w, r, err, "list_mutual", viewerID, 0)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, page)
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	loc, err := h.service.UpdateLocation(r.Context(), viewerID, req.Lat, req.Lng)
	if err != nil {
		h.respondError(w, r, err, "update_location", viewerID, 0)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Location updated",
		"location": loc,
	})
}

// respondError maps domain errors to status codes. Anything unrecognised is
// logged with its context and reported as a generic 500.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, op string, viewerID, candidateID int64) {
	switch {
	case errors.Is(err, ErrViewerNotFound), errors.Is(err, ErrCandidateNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrMissingMatchID),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrInvalidLocation),
		errors.Is(err, likes.ErrSelfLike),
		errors.Is(err, likes.ErrInvalidUser):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, likes.ErrAlreadyLiked), errors.Is(err, likes.ErrNotLiked):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		log.Error().
			Err(err).
			Str("request_id", logger.GetRequestID(r.Context())).
			Str("op", op).
			Int64("viewer_id", viewerID).
			Int64("candidate_id", candidateID).
			Msg("matching request failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func queryFloat(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func queryBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// queryCoordinate returns nil unless both parts parse into a valid coordinate
func queryCoordinate(latRaw, lngRaw string) *geo.Coordinate {
	if latRaw == "" || lngRaw == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil
	}
	return geo.NewCoordinate(&lat, &lng)
}
