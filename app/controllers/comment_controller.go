package controllers

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"commentbox/app/views"

	"golang.org/x/crypto/sha3"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	widget *Widget
	now    func() time.Time
}

// NewCommentController creates a new CommentController
func NewCommentController(widget *Widget) *CommentController {
	return &CommentController{
		widget: widget,
		now:    time.Now,
	}
}

type textRequest struct {
	Text   string `json:"text"`
	Avatar string `json:"avatar"`
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

type nameRequest struct {
	Name string `json:"name"`
}

// Index renders the comment tree as view models. The ETag is a SHA3-256
// digest of the body so clients can poll cheaply.
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	cc.widget.mu.Lock()
	tree := views.Build(cc.widget.Comments.Comments(), cc.now())
	cc.widget.mu.Unlock()

	body, err := json.Marshal(map[string]interface{}{"comments": tree})
	if err != nil {
		sendError(w, "Failed to encode comments: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sum := sha3.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`

	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(body, '\n'))
}

// Create posts a top-level comment as the current user
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	cc.widget.mu.Lock()
	defer cc.widget.mu.Unlock()

	comment, err := cc.widget.Comments.PostComment(cc.widget.Identity.Current(), req.Text)
	if comment == nil {
		sendError(w, "Comment text is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		sendError(w, "Failed to save comment: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}

// Reply posts a reply under a top-level comment. An optional avatar
// replaces the user's avatar for this reply only.
func (cc *CommentController) Reply(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		sendError(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		sendError(w, "Reply text is required", http.StatusBadRequest)
		return
	}

	cc.widget.mu.Lock()
	defer cc.widget.mu.Unlock()

	reply, err := cc.widget.Comments.PostReply(id, req.Text, cc.widget.Identity.ReplyAuthor(req.Avatar))
	if reply == nil {
		sendError(w, "Comment not found or does not accept replies", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, "Failed to save reply: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusCreated, reply)
}

// React adds one emoji reaction to a comment or reply
func (cc *CommentController) React(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		sendError(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}
	var req reactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Emoji == "" {
		sendError(w, "Emoji is required", http.StatusBadRequest)
		return
	}

	cc.widget.mu.Lock()
	defer cc.widget.mu.Unlock()

	ok, err := cc.widget.Comments.AddReaction(id, req.Emoji)
	if !ok {
		sendError(w, "Comment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, "Failed to save reaction: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, views.SortReactions(cc.widget.Comments.FindComment(id).Reactions))
}

// Rename changes the author name shown on a single comment
func (cc *CommentController) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		sendError(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		sendError(w, "Name is required", http.StatusBadRequest)
		return
	}

	cc.widget.mu.Lock()
	defer cc.widget.mu.Unlock()

	ok, err := cc.widget.Comments.EditAuthorName(id, req.Name)
	if !ok {
		sendError(w, "Comment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, "Failed to save name: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, cc.widget.Comments.FindComment(id))
}

// Clear deletes every comment. The caller must pass confirm=true.
func (cc *CommentController) Clear(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		sendError(w, "Clearing all comments requires confirm=true", http.StatusBadRequest)
		return
	}

	cc.widget.mu.Lock()
	defer cc.widget.mu.Unlock()

	if err := cc.widget.Comments.Clear(); err != nil {
		sendError(w, "Failed to clear comments: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
