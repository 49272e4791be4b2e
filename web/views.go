package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/flow"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"display": cinematch.Display,
}).ParseFS(templateFS, "templates/*.html"))

// listInput describes one tag-style input on the form.
type listInput struct {
	Field       cinematch.Field
	Label       string
	Placeholder string
	Values      []string
	Accent      bool
}

type summaryRow struct {
	Label string
	Value string
}

// page is the view model for every step.
type page struct {
	Step    flow.Step
	Draft   cinematch.Preferences
	Error   string
	Lists   []listInput
	Result  *cinematch.Result
	Summary []summaryRow
}

func newPage(st flow.State) page {
	p := page{Step: st.Step()}
	switch s := st.(type) {
	case flow.Input:
		p.Draft = s.Draft
		p.Error = s.Err
		p.Lists = []listInput{
			{Field: cinematch.FieldGenres, Label: "Preferred Genres", Placeholder: "Action, Sci-Fi, Drama...", Values: s.Draft.Genres, Accent: true},
			{Field: cinematch.FieldFavoriteMovies, Label: "Favorite Movies", Placeholder: "Inception, The Godfather...", Values: s.Draft.FavoriteMovies},
			{Field: cinematch.FieldActors, Label: "Favorite Actors", Placeholder: "Leonardo DiCaprio...", Values: s.Draft.Actors},
		}
	case flow.Results:
		p.Result = s.Result
		if s.Result != nil {
			sum := s.Result.Summary
			p.Summary = []summaryRow{
				{"Genres", sum.Genres},
				{"Mood", sum.Mood},
				{"Favorite Movies", sum.FavoriteMovies},
				{"Language", sum.Language},
				{"Year Range", sum.YearRange},
			}
		}
	}
	return p
}

// render buffers the template so a failure can still produce a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, p page) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.log.Error("render failed", "step", p.Step, "error", err, "session_id", sessionFrom(r.Context()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
