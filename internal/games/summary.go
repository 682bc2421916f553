package games

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	maxDescription = 500
	Footer         = "Powered by Rawg"
)

// Summary is one search hit merged with its detail record. Optional
// fields are nil when RAWG omits them.
type Summary struct {
	ID              int
	Name            string
	Slug            string
	Released        *string
	Rating          *float64
	Metacritic      *int
	Description     string
	BackgroundImage *string
}

func (s Summary) URL() string { return "https://rawg.io/games/" + s.Slug }

type Field struct {
	Name  string
	Value string
}

// Fields lists the labelled values shown under the title. The Metacritic
// line only appears for rated games.
func (s Summary) Fields() []Field {
	released := "TBA"
	if s.Released != nil && *s.Released != "" {
		released = *s.Released
	}

	fields := []Field{{Name: "Release date", Value: released}}

	if s.Rating != nil && *s.Rating != 0 {
		mc := "N/A"
		if s.Metacritic != nil {
			mc = strconv.Itoa(*s.Metacritic)
		}
		fields = append(fields, Field{Name: "Metacritic rating", Value: mc})
	}

	return fields
}

// Render formats s as page n of total.
func (s Summary) Render(n, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n", s.Name, s.URL())
	for _, f := range s.Fields() {
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Value)
	}
	if s.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Description)
	}
	if s.BackgroundImage != nil && *s.BackgroundImage != "" {
		fmt.Fprintf(&b, "\nImage: %s\n", *s.BackgroundImage)
	}
	fmt.Fprintf(&b, "\n%s | %d/%d\n", Footer, n, total)

	return b.String()
}

func summarize(r searchResult, d detailResponse) Summary {
	return Summary{
		ID:              r.ID,
		Name:            r.Name,
		Slug:            r.Slug,
		Released:        r.Released,
		Rating:          r.Rating,
		Metacritic:      d.Metacritic,
		Description:     truncate(d.DescriptionRaw, maxDescription),
		BackgroundImage: r.BackgroundImage,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}
