package system

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English, cases.NoLower)

// sentence capitalises the first word of a journal line. Entity names are
// stored lower case ("giant rat") so they read naturally mid-sentence.
func sentence(line string) string {
	word, rest, found := strings.Cut(line, " ")
	if !found {
		return titler.String(line)
	}
	return titler.String(word) + " " + rest
}
