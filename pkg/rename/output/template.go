package output

import (
	"bytes"
	"sync"
	"text/template"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// TemplateFormatter formats output using a custom Go text/template.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// templateData wraps Result to add computed fields.
type templateData struct {
	*Result
	TotalSize int64
}

// NewTemplateFormatter creates a new template formatter with the given template string.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate sets or updates the template string.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// {{path .}}: the original name relative to the plan folder.
		"path": func(r Row) string {
			return joinPath(r.Dir, r.Original)
		},

		// {{target .}}: the new name relative to the plan folder.
		"target": func(r Row) string {
			return joinPath(r.Dir, r.NewName)
		},

		// {{if renamed .}}: the row will be renamed on apply.
		"renamed": func(r Row) bool {
			return r.Status == types.StatusOK
		},

		// {{ext .NewName}}
		"ext": func(name string) string {
			_, ext := types.SplitName(name)
			return ext
		},

		// {{date . "2006-01-02"}}: the row's modification time.
		"date": func(r Row, layout string) string {
			if r.ModTime.IsZero() {
				return ""
			}
			return r.ModTime.Format(layout)
		},

		// {{ago .}}
		"ago": func(r Row) string {
			if r.ModTime.IsZero() {
				return ""
			}
			return humanize.Time(r.ModTime)
		},

		// {{bytes .Size}} or {{bytes .TotalSize}}
		"bytes": func(size int64) string {
			return humanize.IBytes(uint64(size))
		},

		// {{comma .Summary.TotalFiles}}
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return err
		}
		f.template = tmpl
	}

	return f.template.Execute(w, templateData{
		Result:    r,
		TotalSize: r.TotalSize(),
	})
}

// defaultTemplate is the template used when no custom template is provided.
const defaultTemplate = `{{range .Rows}}{{path .}} -> {{.NewName}}	{{.Status}}	{{bytes .Size}}	{{date . "2006-01-02"}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(defaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
