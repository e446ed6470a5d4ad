package mail

import (
	"bytes"
	"html/template"
)

const (
	SubjectVerification  = "Verification email"
	SubjectPasswordReset = "Password reset"
)

var (
	verificationTmpl = template.Must(template.New("verify").Parse(
		`<p>Hi {{.Name}},</p>` +
			`<p>Welcome to Authors Haven. Please confirm your email address by clicking the link below.</p>` +
			`<p><a href="{{.Link}}">Verify my account</a></p>`))

	passwordResetTmpl = template.Must(template.New("reset").Parse(
		`<p>Hi {{.Name}},</p>` +
			`<p>We received a request to reset your password. The link below is valid for a limited time.</p>` +
			`<p><a href="{{.Link}}">Reset my password</a></p>` +
			`<p>If you did not ask for this, you can ignore this email.</p>`))
)

type linkData struct {
	Name string
	Link string
}

// VerificationMessage builds the account verification email.
func VerificationMessage(to, name, link string) (Message, error) {
	return render(verificationTmpl, to, SubjectVerification, linkData{Name: name, Link: link})
}

// PasswordResetMessage builds the password reset email.
func PasswordResetMessage(to, name, link string) (Message, error) {
	return render(passwordResetTmpl, to, SubjectPasswordReset, linkData{Name: name, Link: link})
}

func render(t *template.Template, to, subject string, data linkData) (Message, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	return Message{Receivers: []string{to}, Subject: subject, HTML: buf.String()}, nil
}
