// internal/discovery/handlers.go

package discovery

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetFeed serves the requester's ranked discovery feed
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query, err := parseFeedQuery(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	feed, err := h.service.GetDiscoveryFeed(r.Context(), userID)
	if err != nil {
		respondWithFeedError(w, err)
		return
	}

	if query.Limit > 0 && len(feed) > query.Limit {
		feed = feed[:query.Limit]
	}

	utils.RespondWithData(w, http.StatusOK, FeedResponse{
		Candidates: feed,
		Count:      len(feed),
	})
}

// InvalidateFeed drops the requester's cached feed so the next read is fresh
func (h *Handler) InvalidateFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.InvalidateFeed(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to invalidate feed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseFeedQuery(r *http.Request) (*FeedQuery, error) {
	query := &FeedQuery{}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("limit must be a number")
		}
		query.Limit = limit
	}

	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}
	return query, nil
}

func respondWithFeedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequester):
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, context.Canceled):
		utils.RespondWithError(w, http.StatusRequestTimeout, "Request cancelled")
	case errors.Is(err, ErrStoreUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Discovery is temporarily unavailable, please try again")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get discovery feed")
	}
}
