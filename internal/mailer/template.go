package mailer

import (
	"bytes"
	"html/template"
	"time"

	"bcsweb/backend/internal/domain"
)

// 联系表单通知正文
var contactTemplate = template.Must(template.New("contact").Parse(`<div style="font-family: Arial, sans-serif; background:#f4f6f8; padding:20px;">
  <div style="max-width:600px; margin:auto; background:#ffffff; border-radius:8px; padding:20px; box-shadow:0 2px 6px rgba(0,0,0,0.1);">
    <h2 style="color:#222; font-size:20px; margin-top:0;">📬 New Contact Form Submission</h2>
    <table style="width:100%; border-collapse: collapse; margin: 16px 0;">
      <tr>
        <td style="padding:8px 0; font-weight:bold; width:80px;">Name:</td>
        <td style="padding:8px 0;">{{.Name}}</td>
      </tr>
      <tr>
        <td style="padding:8px 0; font-weight:bold;">Email:</td>
        <td style="padding:8px 0;"><a href="mailto:{{.Email}}" style="color:#1a73e8;">{{.Email}}</a></td>
      </tr>
      <tr>
        <td style="padding:8px 0; font-weight:bold;">Phone:</td>
        <td style="padding:8px 0;">{{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}</td>
      </tr>
    </table>
    <div style="margin-top:20px;">
      <p style="font-weight:bold; margin-bottom:8px;">Message:</p>
      <div style="background:#f9f9f9; padding:12px; border-radius:6px; line-height:1.5; white-space:pre-line;">{{.Message}}</div>
    </div>
  </div>
</div>
`))

// 职位申请通知正文
var applicationTemplate = template.Must(template.New("application").Parse(`<div style="font-family: Arial, sans-serif; background:#f4f6f8; padding:20px;">
  <div style="max-width:600px; margin:auto; background:#ffffff; border-radius:8px; padding:20px; box-shadow:0 2px 6px rgba(0,0,0,0.1);">
    <h2 style="color:#222; font-size:20px; margin-top:0;">📬 New Career Application Received</h2>
    <table style="width:100%; border-collapse: collapse; margin: 16px 0;">
      <tr>
        <td style="padding:8px 0; font-weight:bold; width:120px;">Name:</td>
        <td style="padding:8px 0;">{{.Name}}</td>
      </tr>
      <tr>
        <td style="padding:8px 0; font-weight:bold;">Email:</td>
        <td style="padding:8px 0;"><a href="mailto:{{.Email}}" style="color:#1a73e8;">{{.Email}}</a></td>
      </tr>
      <tr>
        <td style="padding:8px 0; font-weight:bold;">Phone:</td>
        <td style="padding:8px 0;">{{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}</td>
      </tr>
      <tr>
        <td style="padding:8px 0; font-weight:bold;">Position:</td>
        <td style="padding:8px 0;">{{.Position}}</td>
      </tr>
      <tr>
        <td style="padding:8px 0; font-weight:bold;">Experience:</td>
        <td style="padding:8px 0;">{{.Experience}}</td>
      </tr>
      <tr>
        <td style="padding:8px 0; font-weight:bold;">Resume:</td>
        <td style="padding:8px 0;">
          <a href="{{.ResumeURL}}" style="color:#1a73e8; text-decoration:none;" target="_blank">Download Resume</a>
          <br />
          <small style="color:#666;">(Attached as file too)</small>
        </td>
      </tr>
    </table>
    <div style="margin-top:20px;">
      <p style="font-weight:bold; margin-bottom:8px;">Message:</p>
      <div style="background:#f9f9f9; padding:12px; border-radius:6px; line-height:1.5; white-space:pre-line;">{{if .Message}}{{.Message}}{{else}}No additional message provided{{end}}</div>
    </div>
    <p style="margin-top:20px; font-size:12px; color:#888;">Application received at: {{.ReceivedAt}}</p>
  </div>
</div>
`))

type contactBodyData struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

type applicationBodyData struct {
	Name       string
	Email      string
	Phone      string
	Position   string
	Experience string
	Message    string
	ResumeURL  string
	ReceivedAt string
}

// renderContactBody 渲染联系表单通知的 HTML 正文
func renderContactBody(sub *domain.Submission) (string, error) {
	var buf bytes.Buffer
	err := contactTemplate.Execute(&buf, contactBodyData{
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Message: sub.Message,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderApplicationBody 渲染职位申请通知的 HTML 正文
func renderApplicationBody(sub *domain.Submission, resumeURL string) (string, error) {
	var buf bytes.Buffer
	err := applicationTemplate.Execute(&buf, applicationBodyData{
		Name:       sub.Name,
		Email:      sub.Email,
		Phone:      sub.Phone,
		Position:   sub.Position,
		Experience: sub.Experience,
		Message:    sub.Message,
		ResumeURL:  resumeURL,
		ReceivedAt: time.Now().Format("2006-01-02 15:04:05 MST"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
