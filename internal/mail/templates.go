package mail

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

const timeLayout = "2006-01-02 15:04:05"

type messageData struct {
	Name    string
	Email   string
	Body    string
	SentAt  string
	AppName string
}

type messageTemplate struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func mustTemplate(name, subject, text, html string) messageTemplate {
	return messageTemplate{
		subject: texttemplate.Must(texttemplate.New(name + ".subject").Parse(subject)),
		text:    texttemplate.Must(texttemplate.New(name + ".text").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name + ".html").Parse(html)),
	}
}

const htmlFooter = `
    <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
    <p style="color: #999; font-size: 12px; text-align: center;">&copy; {{.AppName}}. All rights reserved.</p>
  </div>
</body>
</html>`

const htmlHeader = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">`

var (
	welcomeTemplate = mustTemplate("welcome",
		`Welcome to {{.AppName}} 🎉`,
		`Welcome to {{.AppName}}!

Hi {{.Name}},

Your account ({{.Email}}) was created on {{.SentAt}} UTC.
Start by setting a goal and asking the assistant for a weekly plan.

{{.AppName}}
`,
		htmlHeader+`
    <h2 style="color: #0066cc;">Welcome to {{.AppName}}!</h2>
    <p>Hi <strong>{{.Name}}</strong>,</p>
    <p>Your account (<strong>{{.Email}}</strong>) was created on {{.SentAt}} UTC.</p>
    <p>Start by setting a goal and asking the assistant for a weekly plan.</p>`+htmlFooter,
	)

	loginTemplate = mustTemplate("login",
		`{{.AppName}} - Login Notification ✅`,
		`Welcome Back!

Hi {{.Name}},

You've successfully logged into {{.AppName}}.

Login Details:
- Email: {{.Email}}
- Time: {{.SentAt}} UTC

If you didn't perform this login, please contact our support team immediately.
`,
		htmlHeader+`
    <h2 style="color: #0066cc;">Welcome Back!</h2>
    <p>Hi <strong>{{.Name}}</strong>,</p>
    <p>You've successfully logged into <strong>{{.AppName}}</strong>.</p>
    <ul>
      <li>Email: {{.Email}}</li>
      <li>Time: {{.SentAt}} UTC</li>
    </ul>
    <p style="color: #666; font-size: 12px;">If you didn't perform this login, please contact our support team immediately.</p>`+htmlFooter,
	)

	feedbackTemplate = mustTemplate("feedback",
		`{{.AppName}} - New Feedback from {{.Name}}`,
		`New User Feedback

From: {{.Name}} ({{.Email}})
Date: {{.SentAt}} UTC

Feedback Message:
{{.Body}}

Please reply to {{.Email}} to respond to this feedback.
`,
		htmlHeader+`
    <h2 style="color: #0066cc;">New User Feedback</h2>
    <p><strong>From:</strong> {{.Name}} ({{.Email}})</p>
    <p><strong>Date:</strong> {{.SentAt}} UTC</p>
    <div style="background-color: #f5f5f5; padding: 15px; border-left: 4px solid #0066cc;">
      <p style="margin: 0; white-space: pre-wrap;">{{.Body}}</p>
    </div>
    <p style="color: #999; font-size: 12px;">Please reply to {{.Email}} to respond to this feedback.</p>`+htmlFooter,
	)

	contactTemplate = mustTemplate("contact",
		`{{.AppName}} - Contact Form Received ✅`,
		`Thank You for Contacting Us!

Hi {{.Name}},

Thank you for reaching out to {{.AppName}}!
We have received your message and our team will get back to you as soon as possible.

Your Email: {{.Email}}
Response Time: Usually within 24-48 hours
`,
		htmlHeader+`
    <h2 style="color: #0066cc;">Thank You for Contacting Us!</h2>
    <p>Hi <strong>{{.Name}}</strong>,</p>
    <p>Thank you for reaching out to <strong>{{.AppName}}</strong>!</p>
    <p>We have received your message and our team will get back to you as soon as possible.</p>
    <p style="color: #666; font-size: 14px;"><strong>Your Email:</strong> {{.Email}}</p>
    <p style="color: #666; font-size: 14px;"><strong>Response Time:</strong> Usually within 24-48 hours</p>`+htmlFooter,
	)
)
