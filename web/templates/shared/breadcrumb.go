// Package shared holds view types used by more than one page.
package shared

// Breadcrumb represents a navigation trail entry. An empty URL marks the
// current page.
type Breadcrumb struct {
	Title string
	URL   string
}

// Trail builds Home > title for a page directly under the portal root
func Trail(title string) []Breadcrumb {
	return []Breadcrumb{
		{Title: "Home", URL: "/"},
		{Title: title},
	}
}
