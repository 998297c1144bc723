package person

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	minPlausibleYear = 1500
	maxPlausibleYear = 2100

	// livingHorizon is how many years after birth a person without a death
	// date is still considered possibly living.
	livingHorizon = 120
)

var yearRe = regexp.MustCompile(`\d{4}`)

// ExtractYear returns the last four-digit group in a free-form date string
// ("ABT 1820", "12 MAR 1820", "BET 1819 AND 1821"), provided it falls in a
// plausible range. Returns nil when no year can be read.
func ExtractYear(date string) *int {
	matches := yearRe.FindAllString(date, -1)
	if len(matches) == 0 {
		return nil
	}
	year, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil || year < minPlausibleYear || year > maxPlausibleYear {
		return nil
	}
	return &year
}

// InferLiving guesses the living status of a person. Any death date means
// deceased. Unknown age is treated as possibly living.
func InferLiving(birthYear *int, deathDate string, now time.Time) bool {
	if strings.TrimSpace(deathDate) != "" {
		return false
	}
	if birthYear == nil {
		return true
	}
	return *birthYear > now.Year()-livingHorizon
}

// Normalize fills derived fields in place: BirthYear from BirthDate when it is
// missing, and a placeholder name for blank names. The living flag is left as
// supplied; it is owned by the consent layer.
func Normalize(persons []Record) {
	for i := range persons {
		p := &persons[i]
		if p.BirthYear == nil {
			p.BirthYear = ExtractYear(p.BirthDate)
		}
		if strings.TrimSpace(p.Name) == "" {
			p.Name = UnknownName
		}
	}
}

// Lifespan formats the birth and death years of r for a node label.
//
//	"1820 – 1890"    both known
//	"b. 1820"        born, no death date recorded
//	"1820 – ?"       born, death date present but unreadable
//	"? – 1890"       only the death year is known
//	"dates unknown"  neither
func Lifespan(r *Record) string {
	birth := r.BirthYear
	if birth == nil {
		birth = ExtractYear(r.BirthDate)
	}
	death := ExtractYear(r.DeathDate)
	hasDeath := strings.TrimSpace(r.DeathDate) != ""

	switch {
	case birth != nil && death != nil:
		return strconv.Itoa(*birth) + " – " + strconv.Itoa(*death)
	case birth != nil && hasDeath:
		return strconv.Itoa(*birth) + " – ?"
	case birth != nil:
		return "b. " + strconv.Itoa(*birth)
	case death != nil:
		return "? – " + strconv.Itoa(*death)
	default:
		return "dates unknown"
	}
}
