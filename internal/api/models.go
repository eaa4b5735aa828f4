package api

import (
	"time"

	"github.com/Baotq1406/Flashcards-ENG/internal/domain"
	"github.com/Baotq1406/Flashcards-ENG/internal/service/quiz"
	"github.com/Baotq1406/Flashcards-ENG/internal/service/study"
)

// Common request/response structures

// CardRequest defines the payload for creating or editing a card.
type CardRequest struct {
	Front      string `json:"front"      validate:"required"`
	Back       string `json:"back"       validate:"required"`
	Category   string `json:"category"   validate:"required"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

// StartStudyRequest defines the payload for opening a study session. The
// filter fields mirror the card list filter; an empty filter studies the
// whole deck.
type StartStudyRequest struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

// StudyStateResponse is the rendered state of a study session.
type StudyStateResponse struct {
	SessionID    string      `json:"sessionId"`
	Card         domain.Card `json:"card"`
	Index        int         `json:"index"`
	Total        int         `json:"total"`
	ShowBack     bool        `json:"showBack"`
	StudiedCount int         `json:"studiedCount"`
	Completed    bool        `json:"completed"`
}

// MarkRequest defines the payload for scoring a card in study mode.
type MarkRequest struct {
	CardID string `json:"cardId" validate:"required"`
}

// AnswerRequest defines the payload for answering a quiz question. An
// empty string is a legal submission (it can never match a card's back).
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// QuizQuestionView is the client-facing shape of the current question.
// CorrectAnswer, UserAnswer, and IsCorrect are only populated once the
// question is revealed; while it is open the correct answer stays hidden.
type QuizQuestionView struct {
	Front         string   `json:"front"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	UserAnswer    *string  `json:"userAnswer,omitempty"`
	IsCorrect     *bool    `json:"isCorrect,omitempty"`
}

// QuizStateResponse is the rendered state of a quiz session.
type QuizStateResponse struct {
	SessionID string           `json:"sessionId"`
	Phase     string           `json:"phase"`
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	TimeLeft  int              `json:"timeLeft"`
	Question  QuizQuestionView `json:"question"`
}

// QuizBreakdownEntry is one row of the completed-quiz results table.
type QuizBreakdownEntry struct {
	Front         string  `json:"front"`
	CorrectAnswer string  `json:"correctAnswer"`
	UserAnswer    *string `json:"userAnswer"`
	IsCorrect     bool    `json:"isCorrect"`
}

// QuizResultResponse is the aggregate of a completed quiz.
type QuizResultResponse struct {
	SessionID    string               `json:"sessionId"`
	CorrectCount int                  `json:"correctCount"`
	Total        int                  `json:"total"`
	Accuracy     int                  `json:"accuracy"`
	Breakdown    []QuizBreakdownEntry `json:"breakdown"`
}

// StudyHistoryEntry is one persisted study-session record.
type StudyHistoryEntry struct {
	ID               string     `json:"id"`
	StartTime        time.Time  `json:"startTime"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	CardsStudied     int        `json:"cardsStudied"`
	CorrectAnswers   int        `json:"correctAnswers"`
	IncorrectAnswers int        `json:"incorrectAnswers"`
}

// studyStateResponse renders an engine state snapshot.
func studyStateResponse(id string, s study.State) StudyStateResponse {
	return StudyStateResponse{
		SessionID:    id,
		Card:         s.Card,
		Index:        s.Index,
		Total:        s.Total,
		ShowBack:     s.ShowBack,
		StudiedCount: s.StudiedCount,
		Completed:    s.Completed,
	}
}

// quizStateResponse renders an engine state snapshot, hiding the correct
// answer while the question is open.
func quizStateResponse(id string, s quiz.State) QuizStateResponse {
	view := QuizQuestionView{
		Front:      s.Question.Card.Front,
		Category:   s.Question.Card.Category,
		Difficulty: string(s.Question.Card.Difficulty),
		Options:    s.Question.Options,
	}
	if s.Phase != quiz.PhaseOpen {
		view.CorrectAnswer = s.Question.Card.Back
		view.UserAnswer = s.Question.UserAnswer
		view.IsCorrect = s.Question.IsCorrect
	}
	return QuizStateResponse{
		SessionID: id,
		Phase:     string(s.Phase),
		Index:     s.Index,
		Total:     s.Total,
		TimeLeft:  s.TimeLeft,
		Question:  view,
	}
}
