package zoho

import (
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
)

// PageParams are the pagination parameters managed by the iterator.
type PageParams struct {
	Index int `url:"index"`
	Range int `url:"range"`
}

// RequestDescriptor describes one request: root URL, resource path, optional item id and
// query parameters. Every With* method returns a new descriptor and leaves the receiver
// untouched, so descriptors can be shared between iterators.
type RequestDescriptor struct {
	root     string
	resource Resource
	path     string
	id       string
	params   map[string]string
}

// NewRequestDescriptor creates a descriptor for a bound resource.
func NewRequestDescriptor(root string, resource Resource) RequestDescriptor {
	if root == "" {
		root = constants.DefaultAPIRoot
	}

	return RequestDescriptor{
		root:     root,
		resource: resource,
		path:     resource.Path,
		params:   map[string]string{},
	}
}

func (d RequestDescriptor) clone() RequestDescriptor {
	d.params = maps.Clone(d.params)
	if d.params == nil {
		d.params = map[string]string{}
	}

	return d
}

// WithFilter sets a filter, replacing any earlier value for the same key.
func (d RequestDescriptor) WithFilter(filter Filter) RequestDescriptor {
	return d.WithParam(filter.Key(), filter.Value())
}

// WithParam sets a raw query parameter.
func (d RequestDescriptor) WithParam(key, value string) RequestDescriptor {
	next := d.clone()
	next.params[key] = value

	return next
}

// WithID targets a single item of the collection.
func (d RequestDescriptor) WithID(id string) RequestDescriptor {
	next := d.clone()
	next.id = id

	return next
}

// WithPath retargets the descriptor to another path under the same root.
func (d RequestDescriptor) WithPath(path string) RequestDescriptor {
	next := d.clone()
	next.path = path

	return next
}

// WithPage sets the index and range parameters.
func (d RequestDescriptor) WithPage(index, size int) RequestDescriptor {
	next := d.clone()

	values, err := query.Values(PageParams{Index: index, Range: size})
	if err != nil {
		// PageParams only holds ints; this cannot fail.
		return next
	}

	for key := range values {
		next.params[key] = values.Get(key)
	}

	return next
}

// ForChild returns a descriptor for a nested collection. Only the page size carries over.
func (d RequestDescriptor) ForChild(path string) RequestDescriptor {
	child := RequestDescriptor{
		root:     d.root,
		resource: d.resource,
		path:     path,
		params:   map[string]string{},
	}

	if size, ok := d.params[constants.RangeParam]; ok {
		child.params[constants.RangeParam] = size
	}

	return child
}

// URI returns the absolute URL without query parameters, always with a trailing slash.
func (d RequestDescriptor) URI() string {
	var b strings.Builder

	b.WriteString(strings.TrimSuffix(d.root, "/"))
	b.WriteString("/")
	b.WriteString(strings.Trim(d.path, "/"))
	b.WriteString("/")

	if d.id != "" {
		b.WriteString(url.PathEscape(d.id))
		b.WriteString("/")
	}

	return b.String()
}

// Path returns the resource path relative to the root.
func (d RequestDescriptor) Path() string {
	return d.path
}

// ID returns the item id, if any.
func (d RequestDescriptor) ID() string {
	return d.id
}

// Resource returns the endpoint this descriptor was built for.
func (d RequestDescriptor) Resource() Resource {
	return d.resource
}

// Param returns a single parameter value.
func (d RequestDescriptor) Param(key string) (string, bool) {
	value, ok := d.params[key]

	return value, ok
}

// Params returns a copy of the query parameters.
func (d RequestDescriptor) Params() url.Values {
	values := make(url.Values, len(d.params))
	for key, value := range d.params {
		values.Set(key, value)
	}

	return values
}

// Allows reports whether the resource supports the HTTP method.
func (d RequestDescriptor) Allows(method string) bool {
	return d.resource.Allows(method)
}

// PageSize returns the page size requested through range, clamped to the remote maximum.
func (d RequestDescriptor) PageSize() int {
	raw, ok := d.params[constants.RangeParam]
	if !ok {
		return constants.DefaultPageSize
	}

	size, err := strconv.Atoi(raw)
	if err != nil || size <= 0 {
		return constants.DefaultPageSize
	}

	return min(size, constants.MaxPageSize)
}
