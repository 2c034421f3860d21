package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var tmpl = template.Must(template.New("mail").Parse(`
{{define "welcome"}}
<h1>Welcome to the OC Mafia Universe, {{.Username}}!</h1>
<p>Your account is ready. Create a character, join a game and earn your first crowns.</p>
<p>See you in town.</p>
{{end}}

{{define "password_changed"}}
<h1>Your password was changed</h1>
<p>Hi {{.Username}}, the password for your account was just reset using your
security question. If this was not you, reset your password again right away
and pick a new security question.</p>
{{end}}
`))

// Render produces subject, text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	var buf bytes.Buffer
	if err = tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", "", err
	}
	username, _ := data["Username"].(string)
	switch name {
	case TemplateWelcome:
		subject = "Welcome to the OC Mafia Universe!"
		text = fmt.Sprintf("Welcome, %s! Your account is ready.", username)
	case TemplatePasswordChanged:
		subject = "Your password was changed"
		text = fmt.Sprintf("Hi %s, your password was just reset. If this was not you, act now.", username)
	default:
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	return subject, text, buf.String(), nil
}
