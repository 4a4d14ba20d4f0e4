package api

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/azybler/map_instructions/pkg/logger"
)

//go:embed messages/active.*.toml
var messageFS embed.FS

// Messages localizes error codes for API responses.
type Messages struct {
	bundle *i18n.Bundle
}

// NewMessages loads the embedded message files. English is the default.
func NewMessages() (*Messages, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(messageFS, "messages/active.*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(messageFS, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return &Messages{bundle: bundle}, nil
}

// Localize renders the message for code in the best match for
// acceptLanguage, falling back to English. It returns "" for unknown codes
// and on a nil receiver.
func (m *Messages) Localize(acceptLanguage, code string, data map[string]any) string {
	if m == nil || code == "" {
		return ""
	}
	localizer := i18n.NewLocalizer(m.bundle, acceptLanguage, language.English.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    code,
		TemplateData: data,
	})
	if err != nil {
		logger.Debug("Localize failed", "code", code, "accept_language", acceptLanguage, "error", err)
		return ""
	}
	return msg
}
