package matching

import (
	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-matching/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Recommendations
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")
	api.HandleFunc("/update-location", handler.UpdateLocation).Methods("PUT")

	// Likes
	api.HandleFunc("/like", handler.Like).Methods("POST")
	api.HandleFunc("/liked-users", handler.GetLikedUsers).Methods("GET")
	api.HandleFunc("/mutual-likes", handler.GetMutualLikes).Methods("GET")

	// Realtime mutual-like events
	if hub != nil {
		api.HandleFunc("/ws", hub.ServeWS).Methods("GET")
	}
}
