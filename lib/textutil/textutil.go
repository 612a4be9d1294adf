package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

var separatorReplacer = strings.NewReplacer("-", " ", "_", " ", ".", " ")

// NormalizeName lowercases a team name, turns slug separators into spaces and
// collapses runs of whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = separatorReplacer.Replace(name)
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return strings.Trim(name, " \n\t")
}

type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchContains
	MatchAbbreviation
)

// Match compares two normalized names. Containment is checked in both
// directions so "arsenal fc" and "arsenal" match each other.
func Match(query, key string) MatchKind {
	if query == "" || key == "" {
		return MatchNone
	}
	if query == key {
		return MatchExact
	}
	if strings.Contains(key, query) || strings.Contains(query, key) {
		return MatchContains
	}
	if Abbreviates(query, key) {
		return MatchAbbreviation
	}
	return MatchNone
}

// Abbreviates reports whether every word of query abbreviates the word of key
// at the same position ("man utd" -> "manchester united"). A word abbreviates
// another when it shares the first letter and its letters appear in order.
func Abbreviates(query, key string) bool {
	qwords := strings.Fields(query)
	kwords := strings.Fields(key)
	if len(qwords) == 0 || len(qwords) != len(kwords) {
		return false
	}
	for i, q := range qwords {
		if !abbreviatesWord(q, kwords[i]) {
			return false
		}
	}
	return true
}

func abbreviatesWord(q, k string) bool {
	if q == "" || k == "" || q[0] != k[0] {
		return false
	}
	j := 0
	for i := 0; i < len(k) && j < len(q); i++ {
		if k[i] == q[j] {
			j++
		}
	}
	return j == len(q)
}

// Dashed turns a display name into the slug form used in resource paths.
func Dashed(name string) string {
	return strings.Join(strings.Fields(name), "-")
}
