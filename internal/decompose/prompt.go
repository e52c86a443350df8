package decompose

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const systemPrompt = "You are a productivity coach who breaks tasks into small, concrete steps. You only respond with valid JSON."

const responseSchema = `{"subtasks":[{"title":string,"estimatedTime":number}]}`

func buildUserPrompt(req Request) string {
	sb := &strings.Builder{}
	sb.WriteString("Break the following task into 3 to 8 sequential subtasks. Respond strictly with JSON matching this schema: ")
	sb.WriteString(responseSchema)
	fmt.Fprintf(sb, ". estimatedTime is a whole number of minutes between 1 and 60. Write every title in %s.", languageName(req.Locale))
	fmt.Fprintf(sb, "\nTask title: %q\nTask description: %q", req.Title, req.Description)
	if len(req.Existing) > 0 {
		sb.WriteString("\nThe task already has these subtasks. Do not repeat them or overlap with them:")
		for _, st := range req.Existing {
			title := strings.TrimSpace(st.Title)
			if title == "" {
				continue
			}
			fmt.Fprintf(sb, "\n- %s (%d min)", title, st.EstimatedTime)
		}
	}
	return sb.String()
}

// languageName renders a locale tag as an English language name, defaulting
// to English for empty or unparsable input.
func languageName(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		return "English"
	}
	base, _ := tag.Base()
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return "English"
}
