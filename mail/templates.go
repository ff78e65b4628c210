package mail

import "html/template"

var tokenTemplate = template.Must(template.New("token").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body style="background-color:#f4f4f4;font-family:Arial,sans-serif;padding:20px 0">
<div style="background-color:#ffffff;border:1px solid #f0f0f0;border-radius:10px;margin:0 auto;max-width:600px;padding:30px">
  <h1 style="font-size:24px;color:#333333">{{.Title}}</h1>
  <p>Hello {{.Name}},</p>
  <p>{{.Body}}</p>
  <p><a href="{{.URL}}" style="background-color:#007bff;color:#ffffff;padding:12px 24px;border-radius:5px;text-decoration:none">{{.Action}}</a></p>
  <p>Or copy and paste this token if the button doesn't work:</p>
  <p style="font-family:monospace;background-color:#f8f9fa;padding:10px">{{.Token}}</p>
  <p style="background-color:#fff3cd;padding:10px"><strong>Security Notice:</strong> This token will expire in 24 hours. If you didn't request this action, please ignore this email.</p>
  <p style="font-size:12px;color:#888888">This is an automated email from {{.AppName}}. Please do not reply to this message.</p>
  <p style="font-size:12px;color:#888888">If you're having trouble with the button above, copy and paste the URL below into your web browser:</p>
  <p style="font-size:12px"><a href="{{.URL}}">{{.URL}}</a></p>
</div>
</body>
</html>
`))

var contactTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head><title>New Contact Form Submission</title></head>
<body style="font-family:Arial,sans-serif">
  <h1 style="font-size:22px">New Contact Form Submission</h1>
  <p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  {{- if .Interest}}
  <p><strong>Interest:</strong> {{.Interest}}</p>
  {{- end}}
  <p><strong>Message:</strong></p>
  <p style="white-space:pre-wrap">{{.Message}}</p>
</body>
</html>
`))
