package analyzer

import "strings"

var plainText = strings.NewReplacer(
	`"`, "", "`", "",
	"(", "", ")", "",
	"%", "", "$", "", "#", "", "@", "",
	"[", "", "]", "",
	"{", "", "}", "",
	"<", "", ">", "",
	"\n", " ",
)

// PlainText strips markup-like punctuation and turns newlines into spaces.
func PlainText(text string) string {
	return plainText.Replace(text)
}
