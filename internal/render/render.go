package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"subjectStyle": subjectStyle,
	"swatchStyle":  swatchStyle,
	"seq":          seq,
}).ParseFS(templatesFS, "templates/*.html"))

func subjectStyle(s domain.Style) template.CSS {
	return template.CSS(fmt.Sprintf("background:linear-gradient(to right,%s,%s);color:%s", s.From, s.To, s.TextColor))
}

func swatchStyle(s domain.Style) template.CSS {
	return template.CSS("background:" + s.Swatch)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Page rend la page complète. Avec un SessionID, la page embarque le script
// qui suit les ticks (SSE) et envoie les clics.
func Page(w io.Writer, v app.WidgetView) error {
	return templates.ExecuteTemplate(w, "page", v)
}

// Widget rend uniquement la grille + légende (rafraîchissement partiel).
func Widget(w io.Writer, v app.WidgetView) error {
	return templates.ExecuteTemplate(w, "widget", v)
}

type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// FormatFromPath déduit le format de l'extension (".json" sinon HTML).
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatHTML
}

// Export écrit un instantané du widget dans fs. La page exportée est statique:
// pas de session, donc pas de script.
func Export(fs afero.Fs, path string, format Format, v app.WidgetView) error {
	v.SessionID = ""
	v.State.SessionID = ""

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
	case FormatHTML, "":
		if err := Page(&buf, v); err != nil {
			return fmt.Errorf("render page: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
