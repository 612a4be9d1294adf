package fbref

import (
	"bytes"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

var commentRegex = regexp.MustCompile(`(?s)<!--(.*?)-->`)

// uncomment unwraps comments that hide markup tables, sports-reference pages
// ship every secondary table that way and reveal it with javascript.
func uncomment(body []byte) []byte {
	return commentRegex.ReplaceAllFunc(body, func(comment []byte) []byte {
		inner := comment[4 : len(comment)-3]
		if bytes.Contains(inner, []byte("<table")) {
			return inner
		}
		return comment
	})
}

// NewDocument parses a page with its commented tables revealed.
func NewDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(uncomment(body)))
}
