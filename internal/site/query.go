package site

import (
	"fmt"
	"strings"

	"github.com/solatis/displayrules/internal/types"
)

// View identifies the kind of page being rendered.
type View int

const (
	ViewUnspecified View = iota
	ViewSingular
	ViewCategory
	ViewTag
	ViewTaxonomy
	ViewAuthor
	ViewDate
	ViewPostTypeArchive
	ViewHome
	ViewSearch
	ViewNotFound
)

var viewNames = [...]string{
	ViewUnspecified:     "unspecified",
	ViewSingular:        "singular",
	ViewCategory:        "category",
	ViewTag:             "tag",
	ViewTaxonomy:        "taxonomy",
	ViewAuthor:          "author",
	ViewDate:            "date",
	ViewPostTypeArchive: "post_type_archive",
	ViewHome:            "home",
	ViewSearch:          "search",
	ViewNotFound:        "not_found",
}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return viewNames[ViewUnspecified]
	}
	return viewNames[v]
}

// ParseView converts a view name to View. Matching is case-insensitive.
func ParseView(s string) (View, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range viewNames {
		if i != int(ViewUnspecified) && n == name {
			return View(i), nil
		}
	}
	return ViewUnspecified, fmt.Errorf("%w: %q", types.ErrUnknownView, s)
}

// IsArchive reports whether the view lists several posts grouped by
// taxonomy, author, date or post type.
func (v View) IsArchive() bool {
	switch v {
	case ViewCategory, ViewTag, ViewTaxonomy, ViewAuthor, ViewDate, ViewPostTypeArchive:
		return true
	default:
		return false
	}
}

// Query describes the page request a decision is made for.
type Query struct {
	View      View
	PostType  string       // post type of a singular view or post type archive
	ObjectID  types.ItemID // queried post, term or author id
	Slug      string       // queried post slug, term slug or author nicename
	Taxonomy  string       // taxonomy of a taxonomy archive
	FrontPage bool         // the request is the site front page
}

// Validate checks that the fields required by the view are present.
func (q Query) Validate() error {
	if q.View < 0 || int(q.View) >= len(viewNames) {
		return fmt.Errorf("%w: %d", types.ErrUnknownView, q.View)
	}

	switch q.View {
	case ViewUnspecified:
		return fmt.Errorf("%w: view is required", types.ErrUnknownView)
	case ViewSingular:
		if !q.ObjectID.Valid() {
			return fmt.Errorf("singular view requires object id: %w", types.ErrInvalidItemID)
		}
	case ViewTaxonomy:
		if q.Taxonomy == "" {
			return fmt.Errorf("taxonomy view requires taxonomy")
		}
	case ViewPostTypeArchive:
		if q.PostType == "" {
			return fmt.Errorf("post type archive requires post type")
		}
	}
	return nil
}
