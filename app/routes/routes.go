package routes

import (
	"commentbox/app/avatars"
	"commentbox/app/controllers"
	"commentbox/app/middleware"

	"github.com/gorilla/mux"
)

// SetupRoutes defines the widget API and returns a router.
func SetupRoutes(widget *controllers.Widget, encoder *avatars.Encoder) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	commentController := controllers.NewCommentController(widget)
	userController := controllers.NewUserController(widget, encoder)

	api := router.PathPrefix("/api").Subrouter()

	// Comments API endpoints
	comments := api.PathPrefix("/comments").Subrouter()
	comments.HandleFunc("", commentController.Index).Methods("GET")
	comments.HandleFunc("", commentController.Create).Methods("POST")
	comments.HandleFunc("", commentController.Clear).Methods("DELETE")
	comments.HandleFunc("/{id:[0-9]+}/replies", commentController.Reply).Methods("POST")
	comments.HandleFunc("/{id:[0-9]+}/reactions", commentController.React).Methods("POST")
	comments.HandleFunc("/{id:[0-9]+}/author", commentController.Rename).Methods("PUT")

	// User API endpoints
	api.HandleFunc("/user", userController.Show).Methods("GET")
	api.HandleFunc("/user", userController.Update).Methods("PUT")
	api.HandleFunc("/user/avatar", userController.UploadAvatar).Methods("POST")

	return router
}
