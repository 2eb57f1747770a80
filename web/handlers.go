package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/monada-ai/apidocs/domain/catalog"
	"github.com/monada-ai/apidocs/domain/navigation"
	"github.com/monada-ai/apidocs/domain/resolver"
	"github.com/monada-ai/apidocs/domain/tryit"
)

// ReferencePage renders the whole reference: drawer, categories and schemas.
// ?q= narrows both, ?category=&endpoint= highlights the selection.
func (h *Handler) ReferencePage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := strings.TrimSpace(query.Get("q"))
	if search != "" && h.metrics != nil {
		h.metrics.SearchQueries.Inc()
	}

	in := pageInput{
		search: search,
		theme:  themeFromRequest(r, h.Settings().DefaultTheme),
	}

	surface := h.newSurface()
	if err := surface.FromQuery(query); err != nil {
		h.logger.Debug().Err(err).Str("query", r.URL.RawQuery).Msg("ignoring invalid selection")
	}
	if sel, ok := surface.Current(); ok {
		in.selection, in.selected = h.checkEndpoint(sel), true
	}

	h.renderReference(w, http.StatusOK, "reference", in)
}

// SchemaLink follows a schema reference: the reference is resolved, activated,
// and the reader is redirected to the schema's place on the reference page.
func (h *Handler) SchemaLink(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	surface := h.newSurface()

	node := h.resolver.Render(
		catalog.TypeDesc{Kind: catalog.KindSchema, Schema: name},
		func(kind navigation.Kind, index int) {
			if err := surface.Select(kind, index); err != nil {
				h.logger.Warn().Err(err).Str("schema", name).Msg("schema selection failed")
			}
		},
	)
	ref, ok := node.(resolver.SchemaRefNode)
	if !ok {
		http.Error(w, fmt.Sprintf("schema %q not found", name), http.StatusNotFound)
		return
	}

	var target *navigation.Selection
	unsubscribe := surface.Subscribe(func(sel navigation.Selection) { target = &sel })
	ref.Activate()
	unsubscribe()

	if target == nil {
		http.Error(w, fmt.Sprintf("schema %q not found", name), http.StatusNotFound)
		return
	}
	if h.metrics != nil {
		h.metrics.PageRenders.WithLabelValues("schema_link").Inc()
	}
	http.Redirect(w, r, docsHref(*target, r.URL.Query().Get("q")), http.StatusFound)
}

// ToggleTheme switches the theme cookie between dark and light.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	current := themeFromRequest(r, h.Settings().DefaultTheme)

	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    string(current.Toggle()),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
}

// Execute sends the try-it request of one endpoint and shows the response.
// HTMX requests get only the response fragment.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	category := pathParam(r, "category")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid endpoint index", http.StatusNotFound)
		return
	}

	ep, err := h.catalog.Endpoint(category, index)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	surface := h.newSurface()
	if err := surface.SelectEndpoint(slices.Index(h.catalog.CategoryNames(), category), index); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sel, _ := surface.Current()

	form := formState{
		URLParams: formValues(r.PostForm, "url.", ep.URLParams),
		Query:     formValues(r.PostForm, "query.", ep.Query),
		Body:      r.PostForm.Get("body"),
	}
	form.Result = h.execute(r, ep, form, sel.Anchor())

	if r.Header.Get("HX-Request") == "true" {
		h.renderPartial(w, "tryit-result", form.Result)
		return
	}

	h.renderReference(w, http.StatusOK, "execute", pageInput{
		selection: sel,
		selected:  true,
		theme:     themeFromRequest(r, h.Settings().DefaultTheme),
		forms:     map[string]formState{sel.Anchor(): form},
	})
}

func (h *Handler) execute(r *http.Request, ep catalog.Endpoint, form formState, anchor string) *resultView {
	settings := h.Settings()
	result := &resultView{Anchor: anchor}

	var body []byte
	if ep.Body != nil {
		body = []byte(form.Body)
		if strings.TrimSpace(form.Body) == "" {
			body = tryit.DefaultBodyJSON(h.catalog, ep.Body)
		}
		if !json.Valid(body) {
			result.Failed = true
			result.Text = tryit.FormatError(errors.New("request body is not valid JSON"))
			return result
		}
	}

	req := tryit.Build(
		settings.UpstreamURL, settings.APIPrefix, ep,
		mergeValues(tryit.DefaultValues(ep.URLParams), form.URLParams),
		mergeValues(tryit.DefaultValues(ep.Query), form.Query),
		body,
	)

	resp, err := h.executor.Execute(r.Context(), req)
	if err != nil {
		h.logger.Warn().Err(err).Str("method", req.Method).Str("url", req.URL).Msg("try-it request failed")
		result.Failed = true
		result.Text = tryit.FormatError(err)
		return result
	}

	h.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", resp.Status).
		Int64("latency_ms", resp.LatencyMs).
		Str("request_id", resp.RequestID).
		Msg("try-it request")

	result.Status = resp.Status
	result.RequestID = resp.RequestID
	result.LatencyMs = resp.LatencyMs
	result.Text = tryit.FormatResponse(ep.Response, resp.Body)
	return result
}

// OpenAPISpec returns the catalog as an OpenAPI document whose server is
// the try-it target.
func (h *Handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := h.openapi.Spec(h.Settings().BaseURL())

	data, err := spec.ToJSON()
	if err != nil {
		h.logger.Error().Err(err).Msg("encode openapi spec")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(data)
}

func (h *Handler) renderReference(w http.ResponseWriter, status int, label string, in pageInput) {
	view, renderErrs := h.buildPage(in)
	for _, err := range renderErrs {
		h.logger.Warn().Err(err).Msg("catalog entry rendered as error")
		if h.metrics != nil {
			h.metrics.RenderErrors.WithLabelValues(renderErrorReason(err)).Inc()
		}
	}
	if h.metrics != nil {
		h.metrics.PageRenders.WithLabelValues(label).Inc()
	}
	h.render(w, status, "reference", view)
}

func (h *Handler) newSurface() *navigation.Surface {
	return navigation.New(h.catalog.CategoryNames(), len(h.catalog.All()))
}

// checkEndpoint drops an endpoint index the category does not have.
func (h *Handler) checkEndpoint(sel navigation.Selection) navigation.Selection {
	if sel.Kind != navigation.KindCategory || sel.Endpoint == navigation.NoEndpoint {
		return sel
	}
	if _, err := h.catalog.Endpoint(sel.Category, sel.Endpoint); err != nil {
		sel.Endpoint = navigation.NoEndpoint
	}
	return sel
}

// formValues collects the submitted values of params. A submitted empty
// value is kept so a cleared field stays cleared.
func formValues(form url.Values, prefix string, params []catalog.Param) tryit.Values {
	out := make(tryit.Values)
	for _, p := range params {
		if v, ok := form[prefix+p.Name]; ok && len(v) > 0 {
			out[p.Name] = v[0]
		}
	}
	return out
}

// pathParam returns a decoded chi URL parameter.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// safeReturn keeps redirects on the reference pages.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/docs") || strings.HasPrefix(target, "//") {
		return "/docs"
	}
	return target
}
