// Package pages renders the portal screens. Each page is its own clone of
// the base layout and partials so pages can define the same blocks.
package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
)

//go:embed templates
var templateFS embed.FS

var registry = mustParse(templateFS)

func mustParse(fsys fs.FS) map[string]*template.Template {
	set, err := parse(fsys)
	if err != nil {
		panic(err)
	}
	return set
}

func parse(fsys fs.FS) (map[string]*template.Template, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(fsys, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("pages: parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(files))
	for _, file := range files {
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("pages: parse %s: %w", file, err)
		}
		set[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return set, nil
}

var funcs = template.FuncMap{
	"longDate":  func(t time.Time) string { return t.Format("Monday, Jan 2") },
	"shortDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"money":     Money,
	"join":      strings.Join,
}

// Money formats whole dollars with thousands separators, e.g. $1,850
func Money(amount int) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}

func render(name string, data any) templ.Component {
	t, ok := registry[name]
	if !ok {
		panic("pages: unknown page " + name)
	}
	return templ.FromGoHTML(t.Lookup("base"), data)
}

func Homepage(props HomepageProps) templ.Component {
	props.Screen = "homepage"
	props.BodyClass = "theme-hero"
	return render("homepage", props)
}

func ResidentialDashboard(props ResidentialProps) templ.Component {
	props.Screen = "residential_dashboard"
	if props.SearchPlaceholder == "" {
		props.SearchPlaceholder = "Enter your address"
	}
	return render("residential", props)
}

func ProfessionalDashboard(props ProfessionalProps) templ.Component {
	props.Screen = "professional_dashboard"
	if props.Badge == "" {
		props.Badge, props.BadgeTone = "Pro Plan", "green"
	}
	if props.SearchPlaceholder == "" {
		props.SearchPlaceholder = "Search any address in the US..."
	}
	return render("professional", props)
}

func VendorDashboard(props VendorProps) templ.Component {
	props.Screen = "vendor_dashboard"
	if props.Badge == "" {
		props.Badge, props.BadgeTone = "Business Plan", "purple"
	}
	return render("vendor", props)
}

func ErrorPage(props ErrorPageProps) templ.Component {
	props.Screen = "error"
	return render("error", props)
}
