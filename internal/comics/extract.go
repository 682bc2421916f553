package comics

import (
	"encoding/json"
	"math/rand/v2"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/brogergvhs/comicsd/internal/failure"
)

const (
	msgNoImage  = "Can't retrieve a comic image for that site."
	msgBadPage  = "I can't read that comic page."
	msgNoChoice = "That site didn't list any comics to pick from."
)

var reSpaces = regexp.MustCompile(` +`)

// ogImage reads <meta property="og:image" content="...">.
func ogImage(doc *goquery.Document) (string, error) {
	v := strings.TrimSpace(doc.Find(`meta[property="og:image"]`).First().AttrOr("content", ""))
	if v == "" {
		return "", failure.Missing(msgNoImage)
	}

	return resolve(doc, v), nil
}

// attr reads one attribute of the first element matching selector and
// resolves it against the page URL.
func attr(doc *goquery.Document, selector, name string) (string, error) {
	v := strings.TrimSpace(doc.Find(selector).First().AttrOr(name, ""))
	if v == "" {
		return "", failure.Missing(msgNoImage)
	}

	return resolve(doc, v), nil
}

// trustedSrcset scans data-srcset values of the matching images, keeps those
// beginning with prefix and returns the first URL of the last one kept.
func trustedSrcset(doc *goquery.Document, selector, prefix string) (string, error) {
	var found string
	doc.Find(selector).Each(func(_ int, img *goquery.Selection) {
		ss := strings.TrimSpace(img.AttrOr("data-srcset", ""))
		if prefix == "" || !strings.HasPrefix(ss, prefix) {
			return
		}

		if u := firstSrcsetURL(ss); u != "" {
			found = u
		}
	})

	if found == "" {
		return "", failure.Missing(msgNoImage)
	}

	return found, nil
}

func firstSrcsetURL(ss string) string {
	for p := range strings.SplitSeq(ss, ",") {
		parts := strings.Fields(strings.TrimSpace(p))
		if len(parts) > 0 {
			return parts[0]
		}
	}

	return ""
}

// labelledLink finds the first text node matching label and returns the
// text of the next <a> sibling after it.
func labelledLink(doc *goquery.Document, label *regexp.Regexp) (string, error) {
	var found string

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode && label.MatchString(n.Data) {
			for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
				if sib.Type == html.ElementNode && sib.Data == "a" {
					found = strings.TrimSpace(goquery.NewDocumentFromNode(sib).Text())
					return true
				}
			}
			return true
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}

		return false
	}

	for _, root := range doc.Nodes {
		if walk(root) {
			break
		}
	}

	if found == "" {
		return "", failure.Missing(msgNoImage)
	}

	return resolve(doc, found), nil
}

// jsonLDImage decodes the first application/ld+json block and returns its
// "image" field.
func jsonLDImage(doc *goquery.Document) (string, error) {
	script := doc.Find(`script[type="application/ld+json"]`).First()
	if script.Length() == 0 {
		return "", failure.Missing(msgNoImage)
	}

	raw := strings.TrimSpace(script.Text())
	raw = strings.NewReplacer("\n", " ", "\r", " ").Replace(raw)
	raw = reSpaces.ReplaceAllString(raw, " ")

	var info map[string]any
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return "", failure.Upstream(msgBadPage, err)
	}

	image, _ := info["image"].(string)
	if strings.TrimSpace(image) == "" {
		return "", failure.Missing(msgBadPage)
	}

	return resolve(doc, strings.TrimSpace(image)), nil
}

// pickAttr chooses one non-empty attribute value among the matching
// elements, uniformly at random.
func pickAttr(doc *goquery.Document, rng *rand.Rand, selector, name string) (string, error) {
	var values []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(name); ok && strings.TrimSpace(v) != "" {
			values = append(values, strings.TrimSpace(v))
		}
	})

	if len(values) == 0 {
		return "", failure.Missing(msgNoChoice)
	}

	return values[rng.IntN(len(values))], nil
}

// resolve makes raw absolute against the URL the document was fetched from.
func resolve(doc *goquery.Document, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		return raw
	}

	if u.IsAbs() || doc.Url == nil {
		return u.String()
	}

	return doc.Url.ResolveReference(u).String()
}

// rootJoin appends a site-relative path to base, the way archive option
// values are meant to be read.
func rootJoin(base *url.URL, value string) string {
	if u, err := url.Parse(value); err == nil && u.IsAbs() {
		return value
	}

	root := url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	ref, err := url.Parse(strings.TrimPrefix(value, "/"))
	if err != nil {
		return root.String() + strings.TrimPrefix(value, "/")
	}

	return root.ResolveReference(ref).String()
}
