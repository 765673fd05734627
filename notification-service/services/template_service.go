package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"sync"

	"staffhub-backend/shared/config"
)

// TemplateService handles rendering of email templates
type TemplateService struct {
	config        *config.Config
	templateCache map[string]*template.Template
	templateDir   string
	templateMutex sync.RWMutex
}

// NewTemplateService creates a new template service
func NewTemplateService(cfg *config.Config) *TemplateService {
	return &TemplateService{
		config:        cfg,
		templateCache: make(map[string]*template.Template),
		templateDir:   "./shared/mail_templates",
	}
}

// RenderTemplate renders an email template with provided data
func (ts *TemplateService) RenderTemplate(templateID string, data map[string]interface{}) (string, error) {
	ts.templateMutex.RLock()
	tmpl, exists := ts.templateCache[templateID]
	ts.templateMutex.RUnlock()

	if !exists {
		filename := ts.getTemplateFilename(templateID)
		templatePath := filepath.Join(ts.templateDir, filename)

		if _, err := os.Stat(templatePath); os.IsNotExist(err) {
			return "", fmt.Errorf("template file not found: %s", templatePath)
		}

		var err error
		tmpl, err = template.ParseFiles(templatePath)
		if err != nil {
			return "", fmt.Errorf("failed to parse template %s: %v", templateID, err)
		}

		ts.templateMutex.Lock()
		ts.templateCache[templateID] = tmpl
		ts.templateMutex.Unlock()
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %v", templateID, err)
	}

	return rendered.String(), nil
}

// getTemplateFilename maps template ID to filename
func (ts *TemplateService) getTemplateFilename(templateID string) string {
	switch templateID {
	case "welcome_pending":
		return "welcome_pending.html"
	case "account_approved":
		return "account_approved.html"
	case "account_rejected":
		return "account_rejected.html"
	default:
		log.Printf("Unknown template ID: %s, using as filename", templateID)
		return templateID + ".html"
	}
}

// ReloadTemplate forces reload of a specific template
func (ts *TemplateService) ReloadTemplate(templateID string) error {
	filename := ts.getTemplateFilename(templateID)
	templatePath := filepath.Join(ts.templateDir, filename)

	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		return fmt.Errorf("template file not found: %s", templatePath)
	}

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %v", templateID, err)
	}

	ts.templateMutex.Lock()
	ts.templateCache[templateID] = tmpl
	ts.templateMutex.Unlock()

	return nil
}

// ClearCache clears the template cache
func (ts *TemplateService) ClearCache() {
	ts.templateMutex.Lock()
	ts.templateCache = make(map[string]*template.Template)
	ts.templateMutex.Unlock()
}
