package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Validate walks every descriptor reachable from the catalog and reports all
// defects at once. A nil result means every schema reference resolves.
func (c *Catalog) Validate() error {
	v := &validator{c: c}
	for _, s := range c.schemas {
		v.properties("schemas."+s.Name, s.Properties)
	}
	for _, cat := range c.categories {
		for i, ep := range cat.Endpoints {
			v.endpoint(fmt.Sprintf("categories.%s[%d]", cat.Name, i), ep)
		}
	}
	return errors.Join(v.errs...)
}

type validator struct {
	c    *Catalog
	errs []error
}

func (v *validator) fail(path, msg string, cause error) {
	v.errs = append(v.errs, &ConfigurationError{Path: path, Message: msg, Cause: cause})
}

func (v *validator) endpoint(path string, ep Endpoint) {
	if ep.Method == "" {
		v.fail(path, "method is required", nil)
	}
	if !strings.HasPrefix(ep.Path, "/") {
		v.fail(path, fmt.Sprintf("path %q must start with /", ep.Path), nil)
	}

	declared := make(map[string]bool, len(ep.URLParams))
	for _, p := range ep.URLParams {
		declared[p.Name] = true
	}
	for _, name := range Placeholders(ep.Path) {
		if !declared[name] {
			v.fail(path, fmt.Sprintf("placeholder :%s has no url parameter", name), nil)
		}
	}

	if ep.Body != nil {
		v.desc(path+".body", *ep.Body)
	}
	if ep.Response != nil {
		v.desc(path+".response", *ep.Response)
	}
}

func (v *validator) properties(path string, props []Property) {
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		if p.Name == "" {
			v.fail(path, "property name is required", nil)
			continue
		}
		if seen[p.Name] {
			v.fail(path+"."+p.Name, "duplicate property name", nil)
		}
		seen[p.Name] = true
		v.desc(path+"."+p.Name, p.TypeDesc)
	}
}

func (v *validator) desc(path string, d TypeDesc) {
	if err := CheckDesc(d); err != nil {
		v.fail(path, err.Error(), nil)
		return
	}
	switch d.Kind {
	case KindObject:
		v.properties(path, d.Properties)
	case KindArray:
		v.desc(path+"[]", *d.Items)
	case KindSchema:
		if _, err := v.c.Lookup(d.Schema); err != nil {
			v.fail(path, "dangling schema reference", err)
		}
	}
}

// CheckDesc reports a shape defect of a single descriptor level without
// following schema references. Array items are checked one level deep.
func CheckDesc(d TypeDesc) error {
	switch d.Kind {
	case KindString, KindNumber, KindBoolean, KindObject:
		return nil
	case KindEnum:
		if len(d.Enum) == 0 {
			return errors.New("enum declares no values")
		}
	case KindArray:
		if d.Items == nil {
			return errors.New("array declares no item type")
		}
		if d.Items.Kind == KindArray {
			return errors.New("array of array is not supported")
		}
	case KindSchema:
		if d.Schema == "" {
			return errors.New("schema reference has no name")
		}
	default:
		return fmt.Errorf("unknown type %q", d.Kind)
	}
	return nil
}

// Placeholders returns the :name segments of an endpoint path in order.
func Placeholders(path string) []string {
	var names []string
	for _, seg := range strings.Split(path, "/") {
		if name, ok := strings.CutPrefix(seg, ":"); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}
