package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/flow"
)

// scalarFields are the free-text inputs read from every form post.
var scalarFields = []cinematch.Scalar{
	cinematch.ScalarMood,
	cinematch.ScalarLanguage,
	cinematch.ScalarYearRange,
}

// listFields are the tag inputs, each named after its field.
var listFields = []cinematch.Field{
	cinematch.FieldGenres,
	cinematch.FieldFavoriteMovies,
	cinematch.FieldActors,
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	f := flowFrom(r.Context())
	s.render(w, r, newPage(f.State()))
}

func (s *Server) handleSetScalars(w http.ResponseWriter, r *http.Request) {
	if err := s.applyScalars(r, flowFrom(r.Context())); err != nil {
		s.log.Debug("scalars not applied", "session_id", sessionFrom(r.Context()), "error", err)
	}
	redirectHome(w, r)
}

// handleAdd adds "value" to the field in the path, then the text of every
// list input in the form, so text typed next to another "+" is kept too.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.editList(w, r, func(f *flow.Flow, field cinematch.Field) error {
		if _, err := f.Add(field, r.PostFormValue("value")); err != nil {
			return err
		}
		_, err := addPending(r, f)
		return err
	})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.editList(w, r, func(f *flow.Flow, field cinematch.Field) error {
		_, err := f.Remove(field, r.PostFormValue("value"))
		return err
	})
}

func (s *Server) editList(w http.ResponseWriter, r *http.Request, op func(*flow.Flow, cinematch.Field) error) {
	field, ok := cinematch.ParseField(chi.URLParam(r, "field"))
	if !ok {
		http.Error(w, "unknown field", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	f := flowFrom(r.Context())
	if err := s.applyScalars(r, f); err == nil {
		if err := op(f, field); err != nil {
			s.log.Debug("list edit ignored", "field", field, "error", err)
		}
	}
	redirectHome(w, r)
}

// handleEnter serves implicit submission, when Enter is pressed in a text
// field. Text in a list input is added to that list; with none pending the
// form is submitted.
func (s *Server) handleEnter(w http.ResponseWriter, r *http.Request) {
	f := flowFrom(r.Context())
	if err := s.applyScalars(r, f); err != nil {
		s.log.Debug("enter ignored", "session_id", sessionFrom(r.Context()), "error", err)
		redirectHome(w, r)
		return
	}
	pending, err := addPending(r, f)
	if err != nil {
		s.log.Debug("enter ignored", "session_id", sessionFrom(r.Context()), "error", err)
	}
	if pending {
		redirectHome(w, r)
		return
	}
	s.submit(w, r, f)
}

// handleSubmit submits the draft, including text typed into list inputs
// but not yet added.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	f := flowFrom(r.Context())
	if err := s.applyScalars(r, f); err != nil {
		s.log.Debug("submit ignored", "session_id", sessionFrom(r.Context()), "error", err)
		redirectHome(w, r)
		return
	}
	if _, err := addPending(r, f); err != nil {
		s.log.Debug("submit ignored", "session_id", sessionFrom(r.Context()), "error", err)
		redirectHome(w, r)
		return
	}
	s.submit(w, r, f)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, f *flow.Flow) {
	log := s.log.With("session_id", sessionFrom(r.Context()))

	// The flow records the validation message itself; the redirect shows it.
	if _, err := f.SubmitAsync(s.baseCtx); err != nil {
		if cinematch.IsValidation(err) {
			log.Info("submit rejected", "reason", err)
		} else {
			log.Debug("submit ignored", "error", err)
		}
	} else {
		log.Info("recommendation requested")
	}
	redirectHome(w, r)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := flowFrom(r.Context()).Restart(); err != nil && !errors.Is(err, flow.ErrBusy) {
		s.log.Warn("restart failed", "error", err)
	}
	redirectHome(w, r)
}

// addPending adds the text of every list input in the form to its list.
// It reports whether any input carried text.
func addPending(r *http.Request, f *flow.Flow) (bool, error) {
	pending := false
	for _, field := range listFields {
		v := r.PostFormValue(field.String())
		if v == "" {
			continue
		}
		pending = true
		if _, err := f.Add(field, v); err != nil {
			return pending, err
		}
	}
	return pending, nil
}

// applyScalars copies any posted scalar fields into the draft. Absent form
// keys leave the draft untouched.
func (s *Server) applyScalars(r *http.Request, f *flow.Flow) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	for _, sc := range scalarFields {
		if _, ok := r.PostForm[sc.String()]; !ok {
			continue
		}
		if err := f.Set(sc, r.PostFormValue(sc.String())); err != nil {
			return err
		}
	}
	return nil
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
