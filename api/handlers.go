package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/bent101/wordle-entropy/entropy"
	"github.com/bent101/wordle-entropy/hint"
	"github.com/bent101/wordle-entropy/session"
)

// maxListed is the largest remaining set whose words are listed in a
// suggest response.
const maxListed = 20

// maxTop bounds the number of suggestions a request may ask for.
const maxTop = 100

type dictionaryRes struct {
	Words  int    `json:"words"`
	Length int    `json:"length"`
	Digest string `json:"digest"`
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	d := s.idx.Dictionary()
	writeJSON(w, http.StatusOK, dictionaryRes{
		Words:  d.Len(),
		Length: d.Length(),
		Digest: d.Digest().String(),
	})
}

// step is one played guess. Feedback is a pattern such as "22010", or
// "solved".
type step struct {
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"`
}

type suggestReq struct {
	History []step `json:"history"`
	Top     int    `json:"top"`
}

type suggestRes struct {
	State       string          `json:"state"`
	Remaining   int             `json:"remaining"`
	Words       []string        `json:"words,omitempty"`
	Answer      string          `json:"answer,omitempty"`
	Suggestions []entropy.Score `json:"suggestions"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	top := req.Top
	if top <= 0 {
		top = s.opts.Top
	}
	top = min(top, maxTop)

	log := *hlog.FromRequest(r)
	sess := session.New(s.idx,
		session.WithPolicy(s.opts.Policy),
		session.WithWorkers(s.opts.Workers),
		session.WithTop(top),
		session.WithLogger(log),
	)

	n := s.idx.Length()
	steps := make([]session.Step, len(req.History))
	for i, st := range req.History {
		fb, err := session.ParseFeedback(st.Feedback, n)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		steps[i] = session.Step{Guess: st.Guess, Feedback: fb}
	}

	err := sess.Replay(steps...)
	switch {
	case err == nil, errors.Is(err, session.ErrExhausted):
	default:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := suggestRes{
		State:       sess.State().String(),
		Remaining:   sess.Remaining(),
		Suggestions: []entropy.Score{},
	}
	if res.Remaining <= maxListed {
		res.Words = sess.RemainingWords(-1)
	}

	switch sess.State() {
	case session.Solved:
		res.Answer = sess.Outcome().Answer
	case session.Active:
		sug, err := sess.Suggest(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("suggest")
			writeError(w, http.StatusServiceUnavailable, "suggest_failed")
			return
		}
		res.Suggestions = sug.Alternatives
	}
	writeJSON(w, http.StatusOK, res)
}

type scoreReq struct {
	Guess  string `json:"guess"`
	Answer string `json:"answer"`
}

type scoreRes struct {
	Pattern string   `json:"pattern"`
	Marks   []string `json:"marks"`
	Emoji   string   `json:"emoji"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	d := s.idx.Dictionary()
	guess := strings.ToLower(strings.TrimSpace(req.Guess))
	answer := strings.ToLower(strings.TrimSpace(req.Answer))
	if !d.Valid(guess) || !d.Valid(answer) {
		writeError(w, http.StatusBadRequest, "guess and answer must be words of the dictionary length")
		return
	}

	h := hint.Compute(guess, answer)
	n := len(guess)
	marks := make([]string, n)
	for i, m := range h.Marks(n) {
		marks[i] = m.String()
	}
	writeJSON(w, http.StatusOK, scoreRes{
		Pattern: h.Format(n),
		Marks:   marks,
		Emoji:   h.Emoji(n),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
