package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type SeatFreedData struct {
	Name        string
	CourseTitle string
	StartsAt    time.Time
}

type PenaltySuspensionData struct {
	Name  string
	Until time.Time
}

type MembershipEmailData struct {
	Name            string
	PlanName        string
	DurationDays    int
	Price           float64
	Currency        string
	SessionsPerWeek int
	EndsAt          time.Time
}

type MembershipCancelledData struct {
	Name     string
	PlanName string
}

type MembershipExpiryWarningData struct {
	Name       string
	PlanName   string
	DaysLeft   int
	ExpiryDate time.Time
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "BoxHub <noreply@boxhub.app>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Email %q sent to %s", subject, to)
	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to BoxHub! 🎉", "welcome.html", data)
}

// SendSeatFreedEmail tells a waiting-list member they were promoted to a
// confirmed seat.
func (s *EmailService) SendSeatFreedEmail(email, name, courseTitle string, startsAt time.Time) error {
	data := SeatFreedData{
		Name:        name,
		CourseTitle: courseTitle,
		StartsAt:    startsAt,
	}
	return s.sendTemplateEmail(email, "A seat opened up for you! 🏋️", "seat_freed.html", data)
}

func (s *EmailService) SendPenaltySuspensionEmail(email, name string, until time.Time) error {
	data := PenaltySuspensionData{
		Name:  name,
		Until: until,
	}
	return s.sendTemplateEmail(email, "Your membership has been suspended", "penalty_suspension.html", data)
}

func (s *EmailService) SendMembershipStartedEmail(
	email string,
	name string,
	planName string,
	durationDays int,
	price float64,
	currency string,
	sessionsPerWeek int,
	endsAt time.Time,
) error {
	data := MembershipEmailData{
		Name:            name,
		PlanName:        planName,
		DurationDays:    durationDays,
		Price:           price,
		Currency:        currency,
		SessionsPerWeek: sessionsPerWeek,
		EndsAt:          endsAt,
	}
	return s.sendTemplateEmail(email, "Your membership is active! 💪", "membership_started.html", data)
}

func (s *EmailService) SendMembershipCancelledEmail(email, name, planName string) error {
	data := MembershipCancelledData{
		Name:     name,
		PlanName: planName,
	}
	return s.sendTemplateEmail(email, "Your membership has been cancelled", "membership_cancelled.html", data)
}

func (s *EmailService) SendMembershipExpiryWarning(email, name, planName string, expiryDate time.Time, daysLeft int) error {
	data := MembershipExpiryWarningData{
		Name:       name,
		PlanName:   planName,
		DaysLeft:   daysLeft,
		ExpiryDate: expiryDate,
	}
	subject := fmt.Sprintf("Your membership expires in %d days", daysLeft)
	return s.sendTemplateEmail(email, subject, "membership_expiry_warning.html", data)
}
