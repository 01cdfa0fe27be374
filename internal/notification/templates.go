package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var codeTemplate = template.Must(template.New("code").Parse(`<html>
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
  </head>
  <body style="background: #f7f7fa; margin: 0; padding: 0; font-family: 'Segoe UI', Arial, sans-serif;">
    <table width="100%" cellpadding="0" cellspacing="0" style="background: #f7f7fa; padding: 40px 0;">
      <tr>
        <td align="center">
          <table width="100%" style="max-width: 480px; background: #fff; border-radius: 12px; padding: 32px 24px;">
            <tr><td align="center"><h2 style="color: hsl(238, 80%, 8%);">{{.Title}}</h2></td></tr>
            <tr>
              <td align="center">
                <p style="color: #222;">{{.Message}}</p>
                <p style="font-size: 1.5em; color: hsl(27, 100%, 56%); font-weight: bold; letter-spacing: 2px;">{{.Code}}</p>
                <p style="color: #888; font-size: 0.95em;">{{.Note}}</p>
              </td>
            </tr>
            <tr><td align="center"><p style="color: #aaa; font-size: 0.9em;">CyberAware &copy; {{.Year}}</p></td></tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`))

type codeEmail struct {
	Title   string
	Message string
	Code    string
	Note    string
	Year    int
}

func renderCode(e codeEmail) (string, error) {
	e.Year = time.Now().Year()
	var buf bytes.Buffer
	if err := codeTemplate.Execute(&buf, e); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}

func VerificationEmail(to, code string) (Message, error) {
	html, err := renderCode(codeEmail{
		Title:   "Email Verification",
		Message: "Your verification code is:",
		Code:    code,
		Note:    "This code will expire in 10 minutes. If you didn't request this verification, please ignore this email.",
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:        to,
		Subject:   "Email Verification - CyberAware",
		PlainText: "Your verification code is " + code + ". It expires in 10 minutes.",
		HTML:      html,
	}, nil
}

func ResetPasswordEmail(to, code string) (Message, error) {
	html, err := renderCode(codeEmail{
		Title:   "Password Reset Request",
		Message: "You requested to reset your password. Your password reset code is:",
		Code:    code,
		Note:    "This code will expire in 10 minutes. If you didn't request this password reset, ignore this email. Never share this code with anyone.",
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:        to,
		Subject:   "Reset Password - CyberAware",
		PlainText: "Your password reset code is " + code + ". It expires in 10 minutes.",
		HTML:      html,
	}, nil
}
