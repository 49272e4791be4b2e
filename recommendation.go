package cinematch

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode"
)

// MinRecommendations is the number of items the oracle is asked for.
// It is an expectation of the prompt, not a local check.
const MinRecommendations = 5

// CoverBaseURL is the placeholder image service used for cover art.
const CoverBaseURL = "https://picsum.photos/seed"

// Summary is the oracle's restatement of what it understood from the request.
type Summary struct {
	Genres         string `json:"genres"`
	Mood           string `json:"mood"`
	FavoriteMovies string `json:"favoriteMovies"`
	Language       string `json:"language"`
	YearRange      string `json:"yearRange"`
}

// Item is a single recommended movie.
type Item struct {
	Title          string `json:"title"`
	Year           string `json:"year"`
	Genre          string `json:"genre"`
	WhyRecommended string `json:"whyRecommended"`
	SimilarTo      string `json:"similarTo"`
}

// CoverURL returns the cover art URL for the item, keyed by the title with
// all whitespace removed.
func (i Item) CoverURL() string {
	seed := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, i.Title)
	return fmt.Sprintf("%s/%s/400/600", CoverBaseURL, url.PathEscape(seed))
}

// Result is the parsed output of one oracle call.
type Result struct {
	Summary         Summary `json:"summary"`
	Recommendations []Item  `json:"recommendations"`
}

// Len returns the number of recommended items.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Recommendations)
}

// MeetsContract reports whether the oracle honored the prompt: at least
// MinRecommendations items, none of them a stated favorite.
// It never affects whether a request succeeds.
func (r *Result) MeetsContract(p Preferences) bool {
	if r.Len() < MinRecommendations {
		return false
	}
	for _, item := range r.Recommendations {
		if slices.ContainsFunc(p.FavoriteMovies, func(fav string) bool {
			return strings.EqualFold(strings.TrimSpace(fav), strings.TrimSpace(item.Title))
		}) {
			return false
		}
	}
	return true
}

// NotSpecified is shown in place of an empty summary value.
const NotSpecified = "Not specified"

// Display returns value, or NotSpecified when it is empty.
func Display(value string) string {
	if value == "" {
		return NotSpecified
	}
	return value
}
