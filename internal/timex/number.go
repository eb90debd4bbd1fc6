package timex

import "strings"

// lexiconEntry maps a Russian number word to its value.
type lexiconEntry struct {
	word  string
	value int
}

// numberLexicon is scanned in declaration order and the first entry whose
// word occurs as a substring wins. Order is therefore load-bearing: compound
// words must precede the shorter words they contain ("тридцать" before "три",
// "восемь" before "семь", "немного" before "много").
//
// Bare "час" is deliberately not a key. "час назад" already yields 1 through
// the default, while an entry for it would shadow the digit scan in phrases
// like "2 часа назад".
var numberLexicon = []lexiconEntry{
	{"полчаса", 30},
	{"пятнадцать", 15},
	{"двадцать", 20},
	{"тридцать", 30},
	{"сорок", 40},
	{"пятьдесят", 50},
	{"один", 1},
	{"одну", 1},
	{"два", 2},
	{"две", 2},
	{"три", 3},
	{"четыре", 4},
	{"пять", 5},
	{"шесть", 6},
	{"восемь", 8},
	{"семь", 7},
	{"девять", 9},
	{"десять", 10},
	{"пара", 2},
	{"пару", 2},
	{"несколько", 3},
	{"немного", 1},
	{"много", 5},
}

// Extract pulls a cardinal quantity out of a text fragment. It checks the
// word lexicon first, then the first run of decimal digits, and falls back
// to 1. It never fails.
func Extract(text string) int {
	text = strings.ToLower(text)
	for _, entry := range numberLexicon {
		if strings.Contains(text, entry.word) {
			return entry.value
		}
	}
	if n, ok := firstDigitRun(text); ok {
		return n
	}
	return 1
}

// firstDigitRun parses the first contiguous run of ASCII digits with a
// positive value. Zero-valued runs are skipped so Extract stays positive.
func firstDigitRun(text string) (int, bool) {
	value, inRun := 0, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= '0' && c <= '9' {
			inRun = true
			value = value*10 + int(c-'0')
			if value > 1_000_000 {
				value = 1_000_000
			}
			continue
		}
		if inRun {
			if value > 0 {
				return value, true
			}
			inRun, value = false, 0
		}
	}
	if inRun && value > 0 {
		return value, true
	}
	return 0, false
}
