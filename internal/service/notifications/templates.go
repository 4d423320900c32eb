package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/integrations/google"
)

const layoutHeader = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<div style="background-color: #1e40af; color: white; padding: 20px; text-align: center;">
<h1 style="margin: 0;">GHERGO IMMOBILIARE</h1>
<h2 style="margin: 10px 0 0 0;">{{.Heading}}</h2>
</div>
<div style="padding: 20px; background-color: #f8fafc;">`

const layoutFooter = `</div>
</div>`

var confirmationTemplate = template.Must(template.New("confirmation").Parse(layoutHeader + `
<p>Gentile <strong>{{.ClientName}}</strong>,</p>
<p>La sua prenotazione per l'Open House è stata confermata.</p>
<div style="background-color: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
<h3 style="color: #1e40af; margin-top: 0;">Dettagli dell'appuntamento</h3>
<p><strong>Immobile:</strong> {{.PropertyTitle}}</p>
<p><strong>Indirizzo:</strong> {{.Address}}</p>
<p><strong>Data:</strong> {{.Date}}</p>
<p><strong>Orario:</strong> {{.StartTime}} - {{.EndTime}}</p>
<p><strong>Agente:</strong> {{.AgentName}} (<a href="mailto:{{.AgentEmail}}">{{.AgentEmail}}</a>)</p>
</div>
<h3 style="color: #1e40af;">Prossimi passi</h3>
<ol>
<li>Riceverà un invito nel calendario con promemoria il giorno prima.</li>
<li>Compili il questionario di qualificazione per ricevere la brochure dell'immobile:
<a href="{{.QuestionnaireURL}}">{{.QuestionnaireURL}}</a></li>
<li>Si presenti all'indirizzo indicato all'orario prenotato.</li>
</ol>
<p>Cordiali saluti,<br><strong>{{.AgentName}}</strong><br>Ghergo Immobiliare</p>
` + layoutFooter))

var agentTemplate = template.Must(template.New("agent").Parse(layoutHeader + `
<p>Gentile <strong>{{.AgentFirstName}}</strong>,</p>
<p>Ha ricevuto una nuova prenotazione per il suo Open House!</p>
<div style="background-color: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
<h3 style="color: #1e40af; margin-top: 0;">Dettagli della prenotazione</h3>
<p><strong>Cliente:</strong> {{.ClientName}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.ClientEmail}}">{{.ClientEmail}}</a></p>
<p><strong>Telefono:</strong> <a href="tel:{{.ClientPhone}}">{{.ClientPhone}}</a></p>
<hr style="margin: 20px 0;">
<p><strong>Immobile:</strong> {{.PropertyTitle}}</p>
<p><strong>Data Open House:</strong> {{.Date}}</p>
<p><strong>Slot prenotato:</strong> {{.StartTime}} - {{.EndTime}}</p>
{{if .Message}}<hr style="margin: 20px 0;">
<h4 style="color: #1e40af;">Note del cliente</h4>
<p style="font-style: italic;">{{.Message}}</p>{{end}}
</div>
{{if .DashboardURL}}<div style="text-align: center; margin: 20px 0;">
<a href="{{.DashboardURL}}" style="background-color: #1e40af; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Visualizza nella Dashboard</a>
</div>{{end}}
<p>Cordiali saluti,<br><strong>Sistema Ghergo Immobiliare</strong></p>
` + layoutFooter))

var brochureTemplate = template.Must(template.New("brochure").Parse(layoutHeader + `
<p>Gentile <strong>{{.ClientName}}</strong>,</p>
<p>Grazie per aver compilato il questionario. Di seguito trova la brochure dell'immobile <strong>{{.PropertyTitle}}</strong>.</p>
<div style="text-align: center; margin: 20px 0;">
<a href="{{.BrochureURL}}" style="background-color: #1e40af; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Scarica la brochure</a>
</div>
<p>La aspettiamo il {{.Date}} alle {{.StartTime}}.</p>
<p>Cordiali saluti,<br><strong>{{.AgentName}}</strong><br>Ghergo Immobiliare</p>
` + layoutFooter))

var (
	italianWeekdays = [...]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"}
	italianMonths   = [...]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
		"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"}
)

// formatItalianDate "sabato 25 ottobre 2025"
func formatItalianDate(t time.Time) string {
	return fmt.Sprintf("%s %d %s %d", italianWeekdays[t.Weekday()], t.Day(), italianMonths[t.Month()-1], t.Year())
}

// emailData поля, доступные во всех шаблонах
type emailData struct {
	Heading          string
	ClientName       string
	ClientEmail      string
	ClientPhone      string
	Message          string
	AgentName        string
	AgentFirstName   string
	AgentEmail       string
	PropertyTitle    string
	Address          string
	Date             string
	StartTime        string
	EndTime          string
	QuestionnaireURL string
	DashboardURL     string
	BrochureURL      string
}

func (s *Service) newEmailData(d *domain.BookingDetails, heading string) emailData {
	data := emailData{
		Heading:          heading,
		ClientName:       d.Client.FullName(),
		ClientEmail:      d.Client.Email,
		ClientPhone:      d.Client.Phone,
		AgentName:        d.Agent.FullName(),
		AgentFirstName:   d.Agent.FirstName,
		AgentEmail:       d.Agent.Email,
		PropertyTitle:    d.Property.Title,
		Address:          d.Property.FullAddress(),
		Date:             formatItalianDate(d.Event.EventDate),
		StartTime:        d.Slot.StartTime.String(),
		EndTime:          d.Slot.EndTime.String(),
		QuestionnaireURL: s.questionnaireURL,
		DashboardURL:     s.dashboardURL,
	}
	if d.Booking.Message != nil {
		data.Message = *d.Booking.Message
	}
	if d.Property.BrochureURL != nil {
		data.BrochureURL = *d.Property.BrochureURL
	}
	return data
}

func render(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func (s *Service) confirmationEmail(d *domain.BookingDetails) (google.Email, error) {
	html, err := render(confirmationTemplate, s.newEmailData(d, "Conferma Prenotazione Open House"))
	if err != nil {
		return google.Email{}, err
	}
	return google.Email{
		To:      d.Client.Email,
		Subject: "Conferma prenotazione Open House - " + d.Property.Title,
		HTML:    html,
	}, nil
}

func (s *Service) agentEmail(d *domain.BookingDetails) (google.Email, error) {
	html, err := render(agentTemplate, s.newEmailData(d, "Nuova Prenotazione Ricevuta"))
	if err != nil {
		return google.Email{}, err
	}
	return google.Email{
		To:      d.Agent.Email,
		Subject: "Nuova prenotazione Open House - " + d.Property.Title,
		HTML:    html,
	}, nil
}

func (s *Service) brochureEmail(d *domain.BookingDetails) (google.Email, error) {
	html, err := render(brochureTemplate, s.newEmailData(d, "Brochure Immobile"))
	if err != nil {
		return google.Email{}, err
	}
	return google.Email{
		To:      d.Client.Email,
		Subject: "Brochure - " + d.Property.Title,
		HTML:    html,
	}, nil
}

// calendarEventData событие визита в календаре агента, клиент приглашён участником
func calendarEventData(d *domain.BookingDetails) google.OpenHouseEventData {
	var description strings.Builder
	fmt.Fprintf(&description, "Open House Prenotazione\n\n")
	fmt.Fprintf(&description, "Immobile: %s\n", d.Property.Title)
	fmt.Fprintf(&description, "Indirizzo: %s\n\n", d.Property.FullAddress())
	fmt.Fprintf(&description, "Cliente: %s\n", d.Client.FullName())
	fmt.Fprintf(&description, "Email: %s\n", d.Client.Email)
	if d.Client.Phone != "" {
		fmt.Fprintf(&description, "Telefono: %s\n", d.Client.Phone)
	}
	fmt.Fprintf(&description, "\nSlot: %s - %s\n\n", d.Slot.StartTime, d.Slot.EndTime)
	fmt.Fprintf(&description, "Agente: %s", d.Agent.FullName())

	return google.OpenHouseEventData{
		Summary:     "Open House - " + d.Property.Title,
		Description: description.String(),
		Location:    d.Property.FullAddress(),
		Date:        d.Event.EventDate.Format(domain.DateFormat),
		StartTime:   d.Slot.StartTime.String(),
		EndTime:     d.Slot.EndTime.String(),
		Attendees: []google.Attendee{{
			Email:       d.Client.Email,
			DisplayName: d.Client.FullName(),
		}},
	}
}
