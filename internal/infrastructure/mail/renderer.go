package mail

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/riskibarqy/sport-alerts/internal/domain/notification"
	"github.com/valyala/bytebufferpool"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultSiteName = "EN Sport Alerts"

// Rendered is a ready-to-send subject and HTML body.
type Rendered struct {
	Subject string
	HTML    string
}

type viewModel struct {
	SiteName  string
	Subject   string
	Heading   string
	Accent    string
	Match     notification.MatchFields
	HomeScore string
	AwayScore string
	Outcome   string
}

// Renderer turns notification templates into Thai-language HTML emails.
type Renderer struct {
	siteName  string
	templates map[notification.Template]*template.Template
}

func NewRenderer(siteName string) (*Renderer, error) {
	if siteName == "" {
		siteName = defaultSiteName
	}

	names := []notification.Template{
		notification.TemplateMatchReminder,
		notification.TemplateMatchResult,
		notification.TemplateWelcome,
	}
	templates := make(map[notification.Template]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+string(name)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse email template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &Renderer{siteName: siteName, templates: templates}, nil
}

func (r *Renderer) Render(msg notification.Message) (Rendered, error) {
	tmpl, ok := r.templates[msg.Template]
	if !ok {
		return Rendered{}, fmt.Errorf("unknown email template %q", msg.Template)
	}

	view := viewModel{SiteName: r.siteName}
	if msg.Match != nil {
		view.Match = *msg.Match
	}

	switch msg.Template {
	case notification.TemplateMatchReminder:
		if msg.Match == nil {
			return Rendered{}, fmt.Errorf("template %s requires match fields", msg.Template)
		}
		view.Subject = fmt.Sprintf("⏰ เตือนล่วงหน้า: การแข่งขัน%s พรุ่งนี้!", view.Match.SportType)
		view.Heading = "⏰ เตือนล่วงหน้า 24 ชั่วโมง"
		view.Accent = "#ee5a24"
	case notification.TemplateMatchResult:
		if msg.Match == nil || msg.Match.HomeScore == nil || msg.Match.AwayScore == nil {
			return Rendered{}, fmt.Errorf("template %s requires a recorded result", msg.Template)
		}
		view.HomeScore = strconv.Itoa(*msg.Match.HomeScore)
		view.AwayScore = strconv.Itoa(*msg.Match.AwayScore)
		view.Outcome = outcomeText(view.Match)
		view.Subject = fmt.Sprintf("🏆 ผลการแข่งขัน%s: %s", view.Match.SportType, view.Outcome)
		view.Heading = "🏆 ผลการแข่งขัน"
		view.Accent = "#27ae60"
	case notification.TemplateWelcome:
		view.Subject = "🎉 ยินดีต้อนรับสู่ระบบแจ้งเตือนกีฬา " + r.siteName + "!"
		view.Heading = "🎉 ยินดีต้อนรับ!"
		view.Accent = "#764ba2"
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := tmpl.ExecuteTemplate(buf, "layout", view); err != nil {
		return Rendered{}, fmt.Errorf("render email template %s: %w", msg.Template, err)
	}
	return Rendered{Subject: view.Subject, HTML: buf.String()}, nil
}

func outcomeText(fields notification.MatchFields) string {
	if name := fields.WinnerName(); name != "" {
		return "🏆 " + name + " ชนะ!"
	}
	return "🤝 เสมอ!"
}
