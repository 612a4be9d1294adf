package htmlutil

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tracer = otel.Tracer("fbref.lib.htmlutil")

// Text concatenates the text nodes below node in document order, the
// contents of script and style elements are skipped.
func Text(node *html.Node) string {
	var sb strings.Builder
	stack := []*html.Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
			continue
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			continue
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return sb.String()
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText replaces non-breaking spaces, drops non-printable runes, trims
// the ends and collapses inner whitespace runs into one space.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\u00a0':
			return ' '
		case unicode.IsSpace(r):
			return r
		case !unicode.IsPrint(r):
			return -1
		}
		return r
	}, s)
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// SelectionText is the cleaned text of the first node in sel.
func SelectionText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return CleanText(Text(sel.Nodes[0]))
}

type Anchor struct {
	Name string
	Href string
}

// Anchors collects the links in sel. Hrefs are resolved against base when it
// is set, anchors without a parsable href are left out.
func Anchors(ctx context.Context, base *url.URL, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "Anchors")
	defer span.End()

	var anchors []Anchor
	sel.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "unparsable href")
			return
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		anchor := Anchor{
			Name: CleanText(Text(a.Nodes[0])),
			Href: link.String(),
		}
		anchors = append(anchors, anchor)
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", anchor.Name),
			attribute.String("url", anchor.Href),
		))
	})
	return anchors
}

// FirstAnchor returns the first anchor accepted by match.
func FirstAnchor(anchors []Anchor, match func(Anchor) bool) (Anchor, bool) {
	for _, a := range anchors {
		if match(a) {
			return a, true
		}
	}
	return Anchor{}, false
}
