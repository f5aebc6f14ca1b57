package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
)

// Service handles email composition and sending
type Service struct {
	sender      Sender
	fromAddress string
	fromName    string
	templates   map[string]*template.Template
}

// NewService creates a new email service with the embedded templates.
func NewService(sender Sender, fromAddress, fromName string) (*Service, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email layout: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, name := range []string{
		WelcomeEmail{}.TemplateName(),
		OrderConfirmationEmail{}.TemplateName(),
		OrderStatusEmail{}.TemplateName(),
	} {
		base, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		tmpl, err := base.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Service{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
		templates:   templates,
	}, nil
}

// SendWelcome greets a new customer.
func (s *Service) SendWelcome(ctx context.Context, data WelcomeEmail) error {
	return s.send(ctx, data.Email, data)
}

// SendOrderConfirmation sends an order confirmation email
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderConfirmationEmail) error {
	return s.send(ctx, data.Email, data)
}

// SendOrderStatus tells the customer about a status change.
func (s *Service) SendOrderStatus(ctx context.Context, data OrderStatusEmail) error {
	return s.send(ctx, data.Email, data)
}

func (s *Service) send(ctx context.Context, to string, data EmailTemplate) error {
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}

	htmlBody, textBody, err := s.renderTemplate(data.TemplateName(), data)
	if err != nil {
		return err
	}

	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	_, err = s.sender.Send(ctx, &Email{
		To:       []string{to},
		From:     from,
		Subject:  data.Subject(),
		HTMLBody: htmlBody,
		TextBody: textBody,
		Category: strings.TrimSuffix(data.TemplateName(), ".html"),
	})
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", data.TemplateName(), err)
	}
	return nil
}

// Helper method to render a template
func (s *Service) renderTemplate(templateName string, data interface{}) (string, string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", "", ErrTemplateNotFound(templateName)
	}

	var htmlBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&htmlBuf, "email_layout", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	htmlBody := htmlBuf.String()
	return htmlBody, generatePlainText(htmlBody), nil
}

// generatePlainText creates a simple plain text version from HTML
func generatePlainText(html string) string {
	text := html

	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "<br/>", "\n")
	text = strings.ReplaceAll(text, "<br />", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")
	text = strings.ReplaceAll(text, "</div>", "\n")
	text = strings.ReplaceAll(text, "</tr>", "\n")
	text = strings.ReplaceAll(text, "</td>", " ")
	text = strings.ReplaceAll(text, "</h1>", "\n\n")
	text = strings.ReplaceAll(text, "</h2>", "\n\n")
	text = strings.ReplaceAll(text, "</h3>", "\n\n")

	for strings.Contains(text, "<") && strings.Contains(text, ">") {
		start := strings.Index(text, "<")
		end := strings.Index(text, ">")
		if start >= 0 && end > start {
			text = text[:start] + text[end+1:]
		} else {
			break
		}
	}

	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
