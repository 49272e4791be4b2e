package cinematch

import "slices"

// Field identifies one of the list-valued preference fields.
type Field string

// List-valued preference fields.
const (
	FieldGenres         Field = "genres"
	FieldFavoriteMovies Field = "favoriteMovies"
	FieldActors         Field = "actors"
)

// String returns the field identifier.
func (f Field) String() string { return string(f) }

// ParseField maps a field identifier to a Field.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldGenres, FieldFavoriteMovies, FieldActors:
		return Field(s), true
	}
	return "", false
}

// Scalar identifies one of the free-text preference fields.
type Scalar string

// Free-text preference fields.
const (
	ScalarLanguage  Scalar = "language"
	ScalarYearRange Scalar = "yearRange"
	ScalarMood      Scalar = "mood"
)

func (s Scalar) String() string { return string(s) }

// Preferences holds one user's stated movie tastes.
//
// The list fields keep insertion order and never contain the same value twice.
// Mutate them through Add and Remove to keep that guarantee.
type Preferences struct {
	Genres         []string `json:"genres"`
	FavoriteMovies []string `json:"favoriteMovies"`
	Actors         []string `json:"actors"`
	Language       string   `json:"language"`
	YearRange      string   `json:"yearRange"`
	Mood           string   `json:"mood"`
}

func (p *Preferences) list(f Field) *[]string {
	switch f {
	case FieldGenres:
		return &p.Genres
	case FieldFavoriteMovies:
		return &p.FavoriteMovies
	case FieldActors:
		return &p.Actors
	}
	return nil
}

// Add appends value to the given list field.
// Empty values and values already present are ignored.
// Returns true if the list changed.
func (p *Preferences) Add(f Field, value string) bool {
	l := p.list(f)
	if l == nil || value == "" || slices.Contains(*l, value) {
		return false
	}
	*l = append(*l, value)
	return true
}

// Remove deletes value from the given list field.
// Returns true if the list changed.
func (p *Preferences) Remove(f Field, value string) bool {
	l := p.list(f)
	if l == nil {
		return false
	}
	i := slices.Index(*l, value)
	if i < 0 {
		return false
	}
	*l = slices.Delete(*l, i, i+1)
	return true
}

// List returns a copy of the given list field.
func (p *Preferences) List(f Field) []string {
	l := p.list(f)
	if l == nil {
		return nil
	}
	return slices.Clone(*l)
}

// Set assigns a free-text field.
func (p *Preferences) Set(s Scalar, value string) {
	switch s {
	case ScalarLanguage:
		p.Language = value
	case ScalarYearRange:
		p.YearRange = value
	case ScalarMood:
		p.Mood = value
	}
}

// Get returns the value of a free-text field.
func (p *Preferences) Get(s Scalar) string {
	switch s {
	case ScalarLanguage:
		return p.Language
	case ScalarYearRange:
		return p.YearRange
	case ScalarMood:
		return p.Mood
	}
	return ""
}

// Submittable reports whether enough was stated to ask for recommendations:
// at least one genre, one favorite movie, or a mood.
func (p *Preferences) Submittable() bool {
	return len(p.Genres) > 0 || len(p.FavoriteMovies) > 0 || p.Mood != ""
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	p.Genres = slices.Clone(p.Genres)
	p.FavoriteMovies = slices.Clone(p.FavoriteMovies)
	p.Actors = slices.Clone(p.Actors)
	return p
}

// Normalize drops empty and duplicate list entries, keeping the first
// occurrence. Use it on records decoded from untrusted input.
func (p *Preferences) Normalize() {
	for _, f := range []Field{FieldGenres, FieldFavoriteMovies, FieldActors} {
		l := p.list(f)
		in := *l
		*l = nil
		for _, v := range in {
			p.Add(f, v)
		}
	}
}
