package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/amaumene/trendarr/internal/matching"
	"github.com/amaumene/trendarr/internal/models"
)

// Exclusions drops trending items by original language, origin country or
// blacklisted title words
type Exclusions struct {
	languages map[string]bool
	countries map[string]bool
	terms     []string // normalized
}

// NewExclusions builds the rules. Languages are ISO 639-1 codes, countries
// ISO 3166-1 codes; both are compared case-insensitively.
func NewExclusions(languages, countries, terms []string) *Exclusions {
	e := &Exclusions{
		languages: make(map[string]bool),
		countries: make(map[string]bool),
	}
	for _, l := range languages {
		e.languages[strings.ToLower(strings.TrimSpace(l))] = true
	}
	for _, c := range countries {
		e.countries[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	for _, t := range terms {
		if n := matching.Normalize(t); n != "" {
			e.terms = append(e.terms, n)
		}
	}
	return e
}

// LoadBlacklist reads one title term per line; blank lines and # comments are
// ignored. A missing file yields no terms.
func LoadBlacklist(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open blacklist: %w", err)
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term != "" && !strings.HasPrefix(term, "#") {
			terms = append(terms, term)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blacklist: %w", err)
	}

	return terms, nil
}

// Excludes reports whether item is excluded and why
func (e *Exclusions) Excludes(item models.TrendingItem) (bool, string) {
	if lang := strings.ToLower(item.OriginalLanguage); lang != "" && e.languages[lang] {
		return true, "language " + lang
	}

	for _, c := range item.OriginCountries {
		if country := strings.ToUpper(c); e.countries[country] {
			return true, "country " + country
		}
	}

	if len(e.terms) > 0 {
		for _, title := range item.Titles() {
			padded := " " + matching.Normalize(title) + " "
			for _, term := range e.terms {
				// Whole words only, so "it" does not exclude "Twister"
				if strings.Contains(padded, " "+term+" ") {
					return true, "blacklisted term " + term
				}
			}
		}
	}

	return false, ""
}
