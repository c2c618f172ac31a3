package extract

import (
	"sort"
	"strings"
)

// French number words for ages 16 through 70, written the way people type
// them in chat: hyphenated, spaced, or glued together. Built once at init.
var numberWords = buildNumberWords()

type numberWord struct {
	word  string
	value float64
}

var unitWords = []string{
	"", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf",
}

func buildNumberWords() []numberWord {
	base := map[string]float64{
		"seize":        16,
		"dix-sept":     17,
		"dix-huit":     18,
		"dix-neuf":     19,
		"soixante-dix": 70,
	}
	tens := map[string]float64{
		"vingt":     20,
		"trente":    30,
		"quarante":  40,
		"cinquante": 50,
		"soixante":  60,
	}
	for tenWord, tenValue := range tens {
		base[tenWord] = tenValue
		base[tenWord+"-et-un"] = tenValue + 1
		for unit := 2; unit <= 9; unit++ {
			base[tenWord+"-"+unitWords[unit]] = tenValue + float64(unit)
		}
	}

	var words []numberWord
	for word, value := range base {
		words = append(words, numberWord{word: word, value: value})
		if spaced := strings.ReplaceAll(word, "-", " "); spaced != word {
			words = append(words, numberWord{word: spaced, value: value})
		}
		if glued := strings.ReplaceAll(word, "-", ""); glued != word {
			words = append(words, numberWord{word: glued, value: value})
		}
	}
	// Longest first so "vingt-deux" is never read as "vingt".
	sort.Slice(words, func(i, j int) bool {
		if len(words[i].word) != len(words[j].word) {
			return len(words[i].word) > len(words[j].word)
		}
		return words[i].word < words[j].word
	})
	return words
}

// ageFromWords finds the first spelled-out age in the lower-cased text.
func ageFromWords(text string) (float64, bool) {
	padded := " " + text + " "
	for _, nw := range numberWords {
		if strings.Contains(padded, " "+nw.word+" ") {
			return nw.value, true
		}
	}
	return 0, false
}
