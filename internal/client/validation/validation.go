// Package validation checks a file selection before any upload is attempted.
package validation

import (
	"strings"

	"github.com/dmitrijs2005/labdrive/internal/filex"
)

const (
	MsgSelectFile      = "Please select a file"
	MsgRejectedFormats = "The following file formats are not accepted : %s"
)

// Validator decides the custom validity message of a file input.
type Validator struct {
	allowed map[string]struct{}
	tr      Translator
}

// NewValidator accepts extensions with or without a leading dot, in any case.
func NewValidator(allowed []string, tr Translator) *Validator {
	set := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return &Validator{allowed: set, tr: tr}
}

// Allowed lists the accepted extensions.
func (v *Validator) Allowed() []string {
	out := make([]string, 0, len(v.allowed))
	for ext := range v.allowed {
		out = append(out, ext)
	}
	return out
}

// GetFileInputCustomValidity returns "" when files is non-empty and every
// extension is accepted, the translated "select a file" message for an empty
// selection, and the translated "not accepted" message listing the rejected
// names otherwise.
func (v *Validator) GetFileInputCustomValidity(files []string) string {
	if len(files) == 0 {
		return v.tr.Gettext(MsgSelectFile)
	}

	var rejected []string
	for _, name := range files {
		if _, ok := v.allowed[filex.Ext(name)]; !ok {
			rejected = append(rejected, name)
		}
	}
	if len(rejected) == 0 {
		return ""
	}
	return v.tr.Interpolate(v.tr.Gettext(MsgRejectedFormats), strings.Join(rejected, ", "))
}
