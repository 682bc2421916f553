package comics

import (
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/comicsd/internal/dates"
	"github.com/brogergvhs/comicsd/internal/failure"
)

const amuniversalAssets = "https://assets.amuniversal.com/"

var xkcdLabel = regexp.MustCompile(`Image URL \(for hotlinking/embedding\):`)

func fixed(path string) func(string, Mode) string {
	return func(base string, _ Mode) string { return base + path }
}

func datedPath(prefix, layout, suffix string) func(string, Mode) string {
	return func(base string, m Mode) string {
		return base + prefix + dates.Key(m.Date, layout) + suffix
	}
}

func named(name string) func(Mode, Extraction) string {
	return func(Mode, Extraction) string { return name + ".png" }
}

func namedOn(prefix string) func(Mode, Extraction) string {
	return func(m Mode, _ Extraction) string {
		if m.IsRandom() {
			return prefix + ".png"
		}
		return prefix + "-" + m.Date.Format(dates.ISO) + ".png"
	}
}

func ogImageRule(_ Rule, doc *goquery.Document) (Extraction, error) {
	u, err := ogImage(doc)
	if err != nil {
		return Extraction{}, err
	}

	return Extraction{ImageURL: u}, nil
}

func builtinRules() []Rule {
	return []Rule{
		{
			ID:       "webcomicname",
			Title:    "Webcomic Name",
			Homepage: "https://webcomicname.com/",
			Base:     "https://webcomicname.com",
			Build:    fixed("/random"),
			Extract:  ogImageRule,
			Filename: named("ohno"),
		},
		{
			ID:       "smbc",
			Title:    "Saturday Morning Breakfast Cereal",
			Homepage: "https://www.smbc-comics.com/",
			Base:     "https://www.smbc-comics.com",
			Build:    fixed("/comic/archive"),
			Pick: func(doc *goquery.Document, rng *rand.Rand) (string, error) {
				v, err := pickAttr(doc, rng, `select[name="comic"] option`, "value")
				if err != nil {
					return "", err
				}
				return rootJoin(doc.Url, v), nil
			},
			Extract: func(_ Rule, doc *goquery.Document) (Extraction, error) {
				u, err := ogImage(doc)
				if err != nil {
					return Extraction{}, err
				}

				e := Extraction{ImageURL: u}
				if after, ok := doc.Find("#aftercomic img").First().Attr("src"); ok && after != "" {
					e.Extra = map[string]string{"after_comic": resolve(doc, after)}
				}
				return e, nil
			},
			Filename: named("smbc"),
		},
		{
			ID:       "pbf",
			Title:    "The Perry Bible Fellowship",
			Homepage: "https://pbfcomics.com/",
			Base:     "https://pbfcomics.com",
			Build:    fixed("/random"),
			Extract:  ogImageRule,
			Filename: named("pbf"),
		},
		{
			ID:       "cah",
			Title:    "Cyanide and Happiness",
			Homepage: "https://explosm.net/",
			Base:     "https://explosm.net",
			Build:    fixed("/comics/random"),
			Extract:  ogImageRule,
			Filename: named("cah"),
		},
		{
			ID:       "xkcd",
			Aliases:  []string{"xkcdsimple"},
			Title:    "XKCD",
			Homepage: "https://xkcd.com/",
			Base:     "https://c.xkcd.com",
			Build:    fixed("/random/comic/"),
			Extract: func(_ Rule, doc *goquery.Document) (Extraction, error) {
				u, err := labelledLink(doc, xkcdLabel)
				if err != nil {
					return Extraction{}, err
				}
				return Extraction{ImageURL: u}, nil
			},
			Filename: named("xkcd"),
		},
		{
			ID:       "mrls",
			Title:    "Mr. Lovenstein",
			Homepage: "https://www.mrlovenstein.com",
			Base:     "https://www.mrlovenstein.com",
			Build:    fixed("/shuffle"),
			Extract: func(_ Rule, doc *goquery.Document) (Extraction, error) {
				u, err := attr(doc, "#comic_main_image", "src")
				if err != nil {
					return Extraction{}, err
				}
				return Extraction{ImageURL: u}, nil
			},
			Filename: named("mrls"),
		},
		{
			ID:           "chainsaw",
			Aliases:      []string{"chainsawsuit"},
			Title:        "Chainsawsuit",
			Homepage:     "https://chainsawsuit.krisstraub.com/",
			Base:         "https://chainsawsuit.krisstraub.com",
			Since:        dates.Date(2008, time.August, 10),
			Until:        dates.Date(2019, time.February, 6),
			Example:      "2008-09-04",
			DateRequired: true,
			Build:        datedPath("/", "20060102", ".shtml"),
			Extract: func(_ Rule, doc *goquery.Document) (Extraction, error) {
				u, err := attr(doc, "#comic img", "src")
				if err != nil {
					return Extraction{}, err
				}
				return Extraction{ImageURL: u}, nil
			},
			Filename: namedOn("chainsawsuit"),
		},
		{
			ID:       "sarah",
			Title:    "Sarah's Scribbles",
			Homepage: "https://www.gocomics.com/sarahs-scribbles/",
			Base:     "https://www.gocomics.com",
			Build:    fixed("/random/sarahs-scribbles"),
			Extract:  ogImageRule,
			Filename: named("sarahsscribbles"),
		},
		{
			ID:       "dilbert",
			Title:    "Dilbert",
			Homepage: "https://dilbert.com/",
			Base:     "https://dilbert.com",
			Since:    dates.Date(1989, time.April, 16),
			Example:  "2020-01-15",
			Build:    datedPath("/strip/", dates.ISO, ""),
			Extract: func(_ Rule, doc *goquery.Document) (Extraction, error) {
				u, err := jsonLDImage(doc)
				if err != nil {
					return Extraction{}, err
				}
				return Extraction{ImageURL: u}, nil
			},
			Filename: namedOn("dilbert"),
		},
		{
			ID:            "calvin",
			Aliases:       []string{"c&h", "candh"},
			Title:         "Calvin and Hobbes",
			Homepage:      "https://www.gocomics.com/calvinandhobbes/",
			Base:          "https://www.gocomics.com",
			Since:         dates.Date(1985, time.November, 18),
			Until:         dates.Date(1995, time.December, 31),
			Example:       "1995-12-31",
			TrustedPrefix: amuniversalAssets,
			Build:         datedPath("/calvinandhobbes/", "2006/01/02", ""),
			Extract: func(r Rule, doc *goquery.Document) (Extraction, error) {
				u, err := trustedSrcset(doc, "img.lazyload.img-fluid", r.TrustedPrefix)
				if err != nil {
					return Extraction{}, err
				}
				return Extraction{ImageURL: u}, nil
			},
			Filename: namedOn("calvin"),
		},
		{
			ID:       "garfield",
			Aliases:  []string{"fatcat"},
			Title:    "Garfield",
			Homepage: "https://www.gocomics.com/garfield/",
			Base:     "https://www.gocomics.com",
			Since:    dates.Date(1978, time.June, 19),
			Example:  "1994-06-16",
			Build:    datedPath("/garfield/", "2006/01/02", ""),
			Extract:  ogImageRule,
			Filename: namedOn("garfield"),
		},
		{
			ID:         "oddones",
			Title:      "Odd 1s Out",
			Homepage:   "https://theodd1sout.com/pages/comics/",
			Base:       "https://theodd1sout.com",
			RandomOnly: true,
			Build:      fixed("/pages/comics"),
			Pick: func(doc *goquery.Document, rng *rand.Rand) (string, error) {
				v, err := pickAttr(doc, rng, "a.shogun-image-link", "href")
				if err != nil {
					return "", err
				}
				return resolve(doc, v), nil
			},
			Extract: func(_ Rule, doc *goquery.Document) (Extraction, error) {
				img := doc.Find("#article-featured-image").First()
				if img.Length() == 0 {
					return Extraction{}, failure.Missing(msgNoImage)
				}

				u, err := attr(doc, "#article-featured-image", "src")
				if err != nil {
					return Extraction{}, err
				}
				return Extraction{ImageURL: u, Name: slug(img.AttrOr("alt", ""))}, nil
			},
			Filename: func(_ Mode, e Extraction) string {
				if e.Name == "" {
					return "oddonesout.png"
				}
				return "oddonesout-" + e.Name + ".png"
			},
		},
	}
}
