package normalizer

import "strings"

// danishWords are common Danish CV tokens used when no Danish letters appear
var danishWords = []string{
	"erhvervserfaring", "arbejdserfaring", "uddannelse", "kompetencer",
	"modersmål", "flydende", "nuværende", " og ", " hos ",
}

// detectLanguage picks the document language from the raw sources.
// Danish letters or vocabulary mean "da"; everything else defaults to "en".
func detectLanguage(texts ...string) string {
	for _, text := range texts {
		if text == "" {
			continue
		}
		if strings.ContainsAny(text, "æøåÆØÅ") {
			return "da"
		}
		lower := strings.ToLower(text)
		for _, word := range danishWords {
			if strings.Contains(lower, word) {
				return "da"
			}
		}
	}
	return "en"
}
