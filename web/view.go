package web

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/monada-ai/apidocs/domain/catalog"
	"github.com/monada-ai/apidocs/domain/navigation"
	"github.com/monada-ai/apidocs/domain/resolver"
	"github.com/monada-ai/apidocs/domain/tryit"
)

// pageView is the data of the reference page.
type pageView struct {
	Title    string
	LogoURL  string
	Theme    Theme
	Palette  Palette
	Search   string
	Selected string // anchor of the current selection
	Return   string // where the theme toggle sends the reader back to
	OpenAPI  bool

	Drawer     []drawerCategory
	Schemas    []drawerItem
	Categories []categoryView
	Objects    []schemaView
}

type drawerCategory struct {
	Name      string
	Href      string
	Selected  bool
	Endpoints []drawerItem
}

type drawerItem struct {
	Label    string
	Href     string
	Selected bool
}

type categoryView struct {
	Name         string
	Anchor       string
	Introduction []string
	Endpoints    []endpointView
}

type endpointView struct {
	Anchor      string
	Selected    bool
	Method      string
	Path        string
	Description string
	Note        string

	URLParams []paramView
	Query     []paramView

	HasBody  bool
	BodyDesc string
	Body     resolver.Node
	BodyJSON string

	HasResponse  bool
	ResponseDesc string
	Response     resolver.Node

	Action  string
	Snippet string
	Result  *resultView
}

type paramView struct {
	Field       string // form field name
	Name        string
	Type        string
	Description string
	Optional    bool
	Value       string
}

type schemaView struct {
	Anchor   string
	Selected bool
	Card     resolver.SchemaCard
}

// resultView is the outcome of an executed try-it request.
type resultView struct {
	Anchor    string
	Status    int
	Failed    bool
	Text      string
	RequestID string
	LatencyMs int64
}

// formState carries the values entered for one endpoint.
type formState struct {
	URLParams tryit.Values
	Query     tryit.Values
	Body      string
	Result    *resultView
}

// pageInput selects what the page shows.
type pageInput struct {
	search    string
	selection navigation.Selection
	selected  bool
	theme     Theme
	forms     map[string]formState // keyed by endpoint anchor
}

// docsHref returns the reference page URL for a selection.
func docsHref(sel navigation.Selection, search string) string {
	q := sel.Query()
	if search != "" {
		q.Set("q", search)
	}
	return "/docs?" + q.Encode() + "#" + url.PathEscape(sel.Anchor())
}

// buildPage assembles the page. The returned errors are rendering problems
// found in the catalog; they are shown in place and reported by the caller.
func (h *Handler) buildPage(in pageInput) (pageView, []error) {
	settings := h.Settings()
	pred := catalog.Contains(in.search)

	page := pageView{
		Title:   settings.Title,
		LogoURL: settings.LogoURL,
		Theme:   in.theme,
		Palette: in.theme.Palette(),
		Search:  in.search,
		Return:  "/docs",
		OpenAPI: h.openapi != nil,
	}
	if in.selected {
		page.Selected = in.selection.Anchor()
		page.Return = docsHref(in.selection, in.search)
	} else if in.search != "" {
		page.Return = "/docs?" + url.Values{"q": {in.search}}.Encode()
	}

	var renderErrs []error
	categories := h.catalog.Categories()

	for _, m := range h.catalog.FilterCategories(pred) {
		catSel := navigation.Selection{Kind: navigation.KindCategory, Index: m.Index, Category: m.Name, Endpoint: navigation.NoEndpoint}
		dc := drawerCategory{
			Name:     m.Name,
			Href:     docsHref(catSel, in.search),
			Selected: in.selected && page.Selected == catSel.Anchor(),
		}
		cv := categoryView{
			Name:         m.Name,
			Anchor:       catSel.Anchor(),
			Introduction: categories[m.Index].Introduction,
		}

		for _, em := range m.Endpoints {
			epSel := catSel
			epSel.Endpoint = em.Index
			anchor := epSel.Anchor()
			selected := in.selected && page.Selected == anchor

			dc.Endpoints = append(dc.Endpoints, drawerItem{
				Label:    em.Item.Method + " " + em.Item.Path,
				Href:     docsHref(epSel, in.search),
				Selected: selected,
			})

			ev, errs := h.endpointView(m.Name, em.Index, em.Item, anchor, in.forms[anchor], settings)
			ev.Selected = selected
			renderErrs = append(renderErrs, errs...)
			cv.Endpoints = append(cv.Endpoints, ev)
		}

		page.Drawer = append(page.Drawer, dc)
		page.Categories = append(page.Categories, cv)
	}

	for _, m := range h.catalog.FilterSchemas(pred) {
		sel := navigation.Selection{Kind: navigation.KindSchema, Index: m.Index, Category: navigation.SchemasCategory, Endpoint: navigation.NoEndpoint}
		anchor := sel.Anchor()
		selected := in.selected && page.Selected == anchor

		page.Schemas = append(page.Schemas, drawerItem{
			Label:    m.Item.Name,
			Href:     docsHref(sel, in.search),
			Selected: selected,
		})

		card := h.resolver.RenderSchema(m.Item, nil)
		renderErrs = append(renderErrs, resolver.Errors(card.Body)...)
		page.Objects = append(page.Objects, schemaView{Anchor: anchor, Selected: selected, Card: card})
	}

	return page, renderErrs
}

func (h *Handler) endpointView(category string, idx int, ep catalog.Endpoint, anchor string, form formState, settings Settings) (endpointView, []error) {
	ev := endpointView{
		Anchor:      anchor,
		Method:      ep.Method,
		Path:        ep.Path,
		Description: ep.Description,
		Note:        ep.Note,
		Action:      "/docs/execute/" + url.PathEscape(category) + "/" + strconv.Itoa(idx),
		Result:      form.Result,
	}

	urlValues := mergeValues(tryit.DefaultValues(ep.URLParams), form.URLParams)
	queryValues := mergeValues(tryit.DefaultValues(ep.Query), form.Query)
	ev.URLParams = paramViews("url.", ep.URLParams, urlValues)
	ev.Query = paramViews("query.", ep.Query, queryValues)

	var errs []error
	var body []byte
	if ep.Body != nil {
		ev.HasBody = true
		ev.BodyDesc = ep.Body.Description
		ev.Body = h.resolver.Render(*ep.Body, nil)
		errs = append(errs, resolver.Errors(ev.Body)...)
		ev.BodyJSON = form.Body
		if ev.BodyJSON == "" {
			ev.BodyJSON = string(tryit.DefaultBodyJSON(h.catalog, ep.Body))
		}
		body = []byte(ev.BodyJSON)
	}
	if ep.Response != nil {
		ev.HasResponse = true
		ev.ResponseDesc = ep.Response.Description
		ev.Response = h.resolver.Render(*ep.Response, nil)
		errs = append(errs, resolver.Errors(ev.Response)...)
	}

	req := tryit.Build(settings.UpstreamURL, settings.APIPrefix, ep, urlValues, queryValues, body)
	ev.Snippet = tryit.Snippet(req)
	return ev, errs
}

func paramViews(prefix string, params []catalog.Param, values tryit.Values) []paramView {
	out := make([]paramView, len(params))
	for i, p := range params {
		out[i] = paramView{
			Field:       prefix + p.Name,
			Name:        p.Name,
			Type:        p.Type,
			Description: p.Description,
			Optional:    p.Optional,
			Value:       values[p.Name],
		}
	}
	return out
}

// mergeValues overlays entered values on the defaults.
func mergeValues(defaults, entered tryit.Values) tryit.Values {
	for k, v := range entered {
		defaults[k] = v
	}
	return defaults
}

// renderErrorReason labels a rendering error for metrics.
func renderErrorReason(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return "dangling_ref"
	case errors.Is(err, catalog.ErrConfiguration):
		return "configuration"
	default:
		return "unknown"
	}
}
