package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Baotq1406/Flashcards-ENG/internal/api/middleware"
)

// NewRouter assembles the API routes.
func NewRouter(cardH *CardHandler, studyH *StudyHandler, quizH *QuizHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Trace)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardH.List)
			r.Get("/categories", cardH.Categories)
			r.Post("/", cardH.Create)
			r.Put("/{id}", cardH.Update)
			r.Delete("/{id}", cardH.Delete)
		})

		r.Route("/study", func(r chi.Router) {
			r.Get("/history", studyH.History)
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", studyH.Start)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", studyH.Get)
					r.Post("/flip", studyH.Flip)
					r.Post("/next", studyH.Next)
					r.Post("/previous", studyH.Previous)
					r.Post("/correct", studyH.MarkCorrect)
					r.Post("/incorrect", studyH.MarkIncorrect)
					r.Post("/finish", studyH.Finish)
				})
			})
		})

		r.Route("/quiz/sessions", func(r chi.Router) {
			r.Post("/", quizH.Start)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", quizH.Get)
				r.Delete("/", quizH.End)
				r.Get("/result", quizH.Result)
				r.Post("/answer", quizH.Answer)
				r.Post("/next", quizH.Next)
				r.Post("/restart", quizH.Restart)
			})
		})
	})

	return r
}
