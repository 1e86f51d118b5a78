package classifier

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	amountRe = regexp.MustCompile(`[-+]?\d+(?:[.,]\d{1,2})?`)
	dateRe   = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	timeRe   = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	hourRe   = regexp.MustCompile(`\b(\d{1,2})h\b`)
)

// extractAmount parses the first decimal number in the text. Comma is
// accepted as the decimal separator. When the number carries no explicit
// sign, defaultNegative decides the convention (expenses are negative).
func extractAmount(lower string, defaultNegative bool) (decimal.Decimal, bool) {
	match := amountRe.FindString(lower)
	if match == "" {
		return decimal.Zero, false
	}

	normalized := strings.Replace(match, ",", ".", 1)
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}

	explicitSign := strings.HasPrefix(match, "-") || strings.HasPrefix(match, "+")
	if !explicitSign && defaultNegative {
		amount = amount.Neg()
	}
	return amount, true
}

// extractWhen resolves a timestamp from dd/mm[/yyyy] dates, hh:mm or NNh
// times, and the relative words hoje/amanhã, against the given reference
// time. A date without a time defaults to 09:00; a time without a date means
// the next occurrence of that time. Returns nil when nothing resolves.
func extractWhen(lower string, now time.Time) *time.Time {
	loc := now.Location()

	var day time.Time
	hasDate := false
	if m := dateRe.FindStringSubmatch(lower); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			y, _ := strconv.Atoi(m[3])
			if y < 100 {
				y += 2000
			}
			year = y
		}
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			day = time.Date(year, time.Month(mo), d, 0, 0, 0, 0, loc)
			hasDate = true
		}
	}
	if !hasDate {
		if strings.Contains(lower, "amanhã") || strings.Contains(lower, "amanha") {
			day = now.AddDate(0, 0, 1)
			hasDate = true
		} else if strings.Contains(lower, "hoje") {
			day = now
			hasDate = true
		}
	}

	hour, minute := 9, 0
	hasTime := false
	if m := timeRe.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		if h < 24 && mi < 60 {
			hour, minute = h, mi
			hasTime = true
		}
	} else if m := hourRe.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h < 24 {
			hour, minute = h, 0
			hasTime = true
		}
	}

	if !hasDate && !hasTime {
		return nil
	}
	if !hasDate {
		t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return &t
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return &t
}

// stripTemporalTokens blanks out dates and clock times.
func stripTemporalTokens(lower string) string {
	s := dateRe.ReplaceAllString(lower, " ")
	s = timeRe.ReplaceAllString(s, " ")
	return hourRe.ReplaceAllString(s, " ")
}

var titleStopWords = map[string]struct{}{
	"para": {}, "às": {}, "as": {}, "em": {}, "no": {}, "na": {},
	"dia": {}, "de": {}, "do": {}, "da": {}, "com": {}, "o": {}, "a": {},
	"reais": {}, "r$": {},
}

// extractTitle strips the command keyword, numbers, dates and connective
// words; what remains is the user's description of the thing.
func extractTitle(lower string, keywords ...string) string {
	s := lower
	for _, k := range keywords {
		s = strings.ReplaceAll(s, k, " ")
	}
	s = dateRe.ReplaceAllString(s, " ")
	s = timeRe.ReplaceAllString(s, " ")
	s = hourRe.ReplaceAllString(s, " ")
	s = amountRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("amanhã", " ", "amanha", " ", "hoje", " ", "r$", " ").Replace(s)

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, w := range fields {
		if _, stop := titleStopWords[w]; !stop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
