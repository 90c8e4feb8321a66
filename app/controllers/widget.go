package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"commentbox/app/services"

	"github.com/gorilla/mux"
)

// Widget is the state shared by the controllers. The comment store and the
// identity expect a single caller at a time, so every handler holds mu
// while it touches them.
type Widget struct {
	mu       sync.Mutex
	Comments *services.CommentStore
	Identity *services.IdentityService
}

// NewWidget wraps a loaded comment store and identity
func NewWidget(comments *services.CommentStore, identity *services.IdentityService) *Widget {
	return &Widget{
		Comments: comments,
		Identity: identity,
	}
}

// Helper functions for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, map[string]string{"error": message})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
