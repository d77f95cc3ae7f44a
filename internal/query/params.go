package query

import (
	"net/url"
	"strings"
)

// Params is the complete, ordered parameter map for one upstream query.
// Insertion order is fixed by the builder, so the same raw inputs always
// encode to byte-identical strings (preset save/replay equality depends
// on this).
type Params struct {
	keys          []string
	values        map[string]string
	projectHidden bool
}

func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set records a parameter, keeping first-insertion order on overwrite.
func (p *Params) Set(name, value string) {
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

func (p *Params) Get(name string) string {
	return p.values[name]
}

func (p *Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Keys returns the parameter names in insertion order.
func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// HideProject marks the project id as folded into the filter set, so
// display logic can drop the redundant Project column.
func (p *Params) HideProject() {
	p.projectHidden = true
}

func (p *Params) ProjectHidden() bool {
	return p.projectHidden
}

// Encode renders the parameters in insertion order.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, key := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[key]))
	}
	return b.String()
}

// Values converts the parameters for the HTTP client.
func (p *Params) Values() url.Values {
	out := make(url.Values, len(p.keys))
	for _, key := range p.keys {
		out.Set(key, p.values[key])
	}
	return out
}
