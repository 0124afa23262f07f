package llm

import (
	"bytes"
	"text/template"

	"mihaaru-translate-bot/config"
)

const userMessageTemplate = "Translate the following {{.SourceLanguage}} text to {{.TargetLanguage}}:\n\n"

// TemplateProcessor renders translation prompts
type TemplateProcessor struct {
	titleTemplate  *template.Template
	bodyTemplate   *template.Template
	userTemplate   *template.Template
	sourceLanguage string
	targetLanguage string
}

// NewTemplateProcessor creates a new TemplateProcessor with initialized templates
func NewTemplateProcessor(prompts config.PromptConfig) (*TemplateProcessor, error) {
	titleTmpl, err := template.New("title").Parse(prompts.TitlePrompt)
	if err != nil {
		return nil, err
	}

	bodyTmpl, err := template.New("body").Parse(prompts.BodyPrompt)
	if err != nil {
		return nil, err
	}

	userTmpl, err := template.New("user").Parse(userMessageTemplate)
	if err != nil {
		return nil, err
	}

	return &TemplateProcessor{
		titleTemplate:  titleTmpl,
		bodyTemplate:   bodyTmpl,
		userTemplate:   userTmpl,
		sourceLanguage: prompts.SourceLanguage,
		targetLanguage: prompts.TargetLanguage,
	}, nil
}

// SystemPrompt renders the instruction for the given role
func (p *TemplateProcessor) SystemPrompt(role Role) (string, error) {
	tmpl := p.bodyTemplate
	if role == RoleTitle {
		tmpl = p.titleTemplate
	}

	return p.execute(tmpl)
}

// UserMessage renders the request carrying the text to translate
func (p *TemplateProcessor) UserMessage(text string) (string, error) {
	prefix, err := p.execute(p.userTemplate)
	if err != nil {
		return "", err
	}

	return prefix + text, nil
}

func (p *TemplateProcessor) execute(tmpl *template.Template) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		SourceLanguage string
		TargetLanguage string
	}{
		SourceLanguage: p.sourceLanguage,
		TargetLanguage: p.targetLanguage,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
