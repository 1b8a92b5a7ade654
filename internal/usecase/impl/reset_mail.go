package impl

import (
	"html"
	"strings"

	"greenhood/internal/domain/service"
)

// buildResetMail renders the localized password reset message.
func buildResetMail(localizer service.Localizer, name, password string) (subject, body string) {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<p>" + localizer.Get("hello") + " " + html.EscapeString(name) + ",</p>")
	b.WriteString("<p>" + localizer.Get("passresetrequest") + "</p>")
	b.WriteString("<p>" + localizer.Get("newtemppass", html.EscapeString(password)) + "</p>")
	b.WriteString("<p>" + localizer.Get("changetemppass") + "</p>")
	b.WriteString("<p><i>" + localizer.Get("mailpasswarning") + "</i></p>")
	b.WriteString("</body></html>")

	return localizer.Get("mailpasssubject"), b.String()
}
