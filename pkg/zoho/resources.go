package zoho

import (
	"net/http"
	"slices"
	"strings"
)

// Resource describes one endpoint of the API. Path may hold {portal_id}, {project_id}
// and {parent_id} placeholders that Bind fills in.
type Resource struct {
	Name     string
	Path     string
	ItemsKey string
	Methods  []string
}

const (
	portalPlaceholder  = "{portal_id}"
	projectPlaceholder = "{project_id}"
)

// Endpoints.
var (
	ResourcePortals = Resource{
		Name:     "portals",
		Path:     "portals",
		ItemsKey: "portals",
		Methods:  []string{http.MethodGet},
	}
	ResourceProjects = Resource{
		Name:     "projects",
		Path:     "portal/{portal_id}/projects",
		ItemsKey: "projects",
		Methods:  []string{http.MethodGet},
	}
	ResourceTasks = Resource{
		Name:     "tasks",
		Path:     "portal/{portal_id}/projects/{project_id}/tasks",
		ItemsKey: "tasks",
		Methods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}
	ResourceSubtasks = Resource{
		Name:     "subtasks",
		Path:     "portal/{portal_id}/projects/{project_id}/tasks/{parent_id}/subtasks",
		ItemsKey: "tasks",
		Methods:  []string{http.MethodGet},
	}
	ResourceBugs = Resource{
		Name:     "bugs",
		Path:     "portal/{portal_id}/projects/{project_id}/bugs",
		ItemsKey: "bugs",
		Methods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}
	ResourceTasklists = Resource{
		Name:     "tasklists",
		Path:     "portal/{portal_id}/projects/{project_id}/tasklists",
		ItemsKey: "tasklists",
		Methods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}
	ResourceCategories = Resource{
		Name:     "categories",
		Path:     "portal/{portal_id}/projects/{project_id}/categories",
		ItemsKey: "categories",
		Methods:  []string{http.MethodGet, http.MethodPost},
	}
)

// Bind returns a copy of r with the portal and project placeholders replaced. An empty
// id leaves its placeholder in the path.
func (r Resource) Bind(portalID, projectID string) Resource {
	var pairs []string

	if portalID != "" {
		pairs = append(pairs, portalPlaceholder, portalID)
	}

	if projectID != "" {
		pairs = append(pairs, projectPlaceholder, projectID)
	}

	if len(pairs) > 0 {
		r.Path = strings.NewReplacer(pairs...).Replace(r.Path)
	}

	return r
}

// NeedsPortal reports whether the path still lacks a portal id.
func (r Resource) NeedsPortal() bool {
	return strings.Contains(r.Path, portalPlaceholder)
}

// NeedsProject reports whether the path still lacks a project id.
func (r Resource) NeedsProject() bool {
	return strings.Contains(r.Path, projectPlaceholder)
}

// ChildPath returns the path of the collection nested under parentID.
func (r Resource) ChildPath(parentID string) string {
	return strings.ReplaceAll(r.Path, "{parent_id}", parentID)
}

// Allows reports whether the endpoint supports the HTTP method.
func (r Resource) Allows(method string) bool {
	return slices.Contains(r.Methods, method)
}
