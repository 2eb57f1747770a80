// Package tryit builds the "try it" request of an endpoint from user-entered
// parameter values. It performs no I/O; the executor adapter sends the request.
package tryit

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/monada-ai/apidocs/domain/catalog"
)

// Values maps a parameter name to its entered value.
type Values map[string]string

// DefaultValues returns the example values declared for params.
func DefaultValues(params []catalog.Param) Values {
	v := make(Values, len(params))
	for _, p := range params {
		v[p.Name] = p.DefaultValue()
	}
	return v
}

// Request is a fully substituted try-it request.
type Request struct {
	Method string
	Path   string // endpoint path after placeholder substitution
	Query  string // encoded query string without the leading '?'
	URL    string
	Body   []byte // nil when the endpoint declares no body
}

// Response is the outcome of an executed request.
type Response struct {
	Status    int
	Headers   map[string]string
	Body      []byte
	RequestID string
	LatencyMs int64
}

var placeholder = regexp.MustCompile(`:(\w+)`)

// SubstitutePath replaces :name placeholders with their values.
// Placeholders without a value are left as written.
func SubstitutePath(path string, params Values) string {
	return placeholder.ReplaceAllStringFunc(path, func(m string) string {
		if v := params[m[1:]]; v != "" {
			return url.PathEscape(v)
		}
		return m
	})
}

// EncodeQuery encodes the non-empty values of the declared query parameters
// in declaration order.
func EncodeQuery(params []catalog.Param, values Values) string {
	var b strings.Builder
	for _, p := range params {
		v := values[p.Name]
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// Build assembles the request for ep. baseURL and prefix are joined in front of
// the substituted path, e.g. "https://app.monada.ai" + "/api" + "/login".
// body is sent only when the endpoint declares one.
func Build(baseURL, prefix string, ep catalog.Endpoint, urlParams, query Values, body []byte) Request {
	req := Request{
		Method: strings.ToUpper(ep.Method),
		Path:   SubstitutePath(ep.Path, urlParams),
		Query:  EncodeQuery(ep.Query, query),
	}

	u := strings.TrimRight(baseURL, "/") + prefix + req.Path
	if req.Query != "" {
		u += "?" + req.Query
	}
	req.URL = u

	if ep.Body != nil {
		req.Body = body
	}
	return req
}

// Snippet renders the request as a browser fetch call.
func Snippet(req Request) string {
	var b strings.Builder
	b.WriteString("fetch(\"" + req.URL + "\", {\n")
	b.WriteString("  method: \"" + req.Method + "\",\n")
	b.WriteString("  headers: {\n")
	b.WriteString("    \"Content-Type\": \"application/json\",\n")
	b.WriteString("  },\n")
	if req.Body != nil {
		body := "body: JSON.stringify(" + string(req.Body) + "),"
		for _, line := range strings.Split(body, "\n") {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("})")
	return b.String()
}

// FormatResponse renders a response body for display. A string response is
// shown unquoted, JSON is indented by two spaces, anything else is shown raw.
func FormatResponse(response *catalog.TypeDesc, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if response != nil && response.Kind == catalog.KindString {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, trimmed, "", "  "); err != nil {
		return string(body)
	}
	return out.String()
}

// FormatError renders a transport failure as the response text.
func FormatError(err error) string {
	out, _ := json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
	return string(out)
}
