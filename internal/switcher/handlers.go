package switcher

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/logfields"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
)

// Routes served by Handlers.
const (
	SwitchRoute = "/_switch"
	WidgetRoute = "/_switcher"
)

var widget = template.Must(template.New("switcher").Parse(`{{- if .DevMode -}}
<span class="docshelf-version docshelf-version--dev">{{.Latest}}</span>
{{- else if not .Options -}}
<span class="docshelf-version docshelf-version--error" style="color: red">No versions found</span>
{{- else -}}
<select class="docshelf-version" aria-label="Documentation version" onchange="var p=new URLSearchParams(location.search).get('path');location.href='/_switch?version='+encodeURIComponent(this.value)+(p!==null?'&path='+encodeURIComponent(p):'')">
{{- range .Options}}
<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{if eq . "latest"}}Latest{{else}}{{.}}{{end}}</option>
{{- end}}
</select>
{{- end}}
`))

type widgetData struct {
	DevMode  bool
	Latest   string
	Options  []string
	Selected string
}

// Handlers serves the switcher endpoints for a publish root.
type Handlers struct {
	root    string
	devMode bool
	errs    *derrors.HTTPErrorAdapter
}

// NewHandlers returns switcher handlers reading the manifest under root.
// In dev mode the widget only shows the latest version.
func NewHandlers(root string, devMode bool) *Handlers {
	return &Handlers{root: root, devMode: devMode, errs: derrors.NewHTTPErrorAdapter(slog.Default())}
}

// Register mounts the switcher routes on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+SwitchRoute, h.HandleSwitch)
	mux.HandleFunc("GET "+WidgetRoute, h.HandleWidget)
}

// HandleSwitch stores the requested version in a cookie and redirects to it.
func (h *Handlers) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	choice := q.Get("version")
	m, err := manifest.Read(h.root)
	if err != nil {
		h.errs.WriteErrorResponse(w, r, err)
		return
	}
	if !slices.Contains(Options(m), choice) {
		h.errs.WriteErrorResponse(w, r, derrors.ValidationError("unknown version").
			WithSeverity(derrors.SeverityWarning).
			WithContext("version", choice).
			Build())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    choice,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	target := RedirectURL(choice, q)
	slog.Debug("Switching version", logfields.Version(choice), logfields.URL(target))
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleWidget renders the switcher as an HTML fragment. The page the widget
// is embedded in is taken from the "from" query parameter, else the Referer.
func (h *Handlers) HandleWidget(w http.ResponseWriter, r *http.Request) {
	data := widgetData{DevMode: h.devMode}

	m, err := manifest.Read(h.root)
	switch {
	case err != nil:
		slog.Warn("Switcher could not load manifest", logfields.Error(err))
		data.Latest = "error"
	case m.Latest == "":
		data.Latest = "unknown"
	default:
		data.Latest = m.Latest
	}
	if err == nil && len(m.Versions) > 0 {
		data.Options = Options(m)
		stored := ""
		if c, cerr := r.Cookie(CookieName); cerr == nil {
			stored = c.Value
		}
		data.Selected = InitialSelection(pagePath(r), stored, data.Options)
	}

	var buf bytes.Buffer
	if err := widget.Execute(&buf, data); err != nil {
		h.errs.WriteErrorResponse(w, r, derrors.WrapError(err, derrors.CategoryInternal, "render switcher").Build())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func pagePath(r *http.Request) string {
	if from := r.URL.Query().Get("from"); from != "" {
		return from
	}
	if ref := r.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil {
			return u.Path
		}
	}
	return ""
}
