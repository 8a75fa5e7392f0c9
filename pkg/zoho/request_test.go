package zoho_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

func TestRequestDescriptor_URI(t *testing.T) {
	t.Parallel()

	tasks := zoho.ResourceTasks.Bind("10", "20")

	tests := []struct {
		name string
		desc zoho.RequestDescriptor
		want string
	}{
		{
			name: "collection",
			desc: zoho.NewRequestDescriptor("https://projectsapi.zoho.com/restapi/", tasks),
			want: "https://projectsapi.zoho.com/restapi/portal/10/projects/20/tasks/",
		},
		{
			name: "single item",
			desc: zoho.NewRequestDescriptor("https://projectsapi.zoho.com/restapi", tasks).WithID("30"),
			want: "https://projectsapi.zoho.com/restapi/portal/10/projects/20/tasks/30/",
		},
		{
			name: "default root",
			desc: zoho.NewRequestDescriptor("", zoho.ResourcePortals),
			want: "https://projectsapi.zoho.com/restapi/portals/",
		},
		{
			name: "child path",
			desc: zoho.NewRequestDescriptor("", tasks).
				WithPath(zoho.ResourceSubtasks.Bind("10", "20").ChildPath("30")),
			want: "https://projectsapi.zoho.com/restapi/portal/10/projects/20/tasks/30/subtasks/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.desc.URI())
		})
	}
}

func TestRequestDescriptor_ValueSemantics(t *testing.T) {
	t.Parallel()

	base := zoho.NewRequestDescriptor("", zoho.ResourceBugs.Bind("1", "2")).WithParam("flag", "internal")
	derived := base.WithParam("flag", "external").WithID("9").WithPage(100, 50)

	assert.Equal(t, "internal", base.Params().Get("flag"))
	assert.Empty(t, base.ID())
	_, ok := base.Param("index")
	assert.False(t, ok)

	assert.Equal(t, "external", derived.Params().Get("flag"))
	assert.Equal(t, "9", derived.ID())
	assert.Equal(t, "100", derived.Params().Get("index"))
	assert.Equal(t, "50", derived.Params().Get("range"))

	params := base.Params()
	params.Set("flag", "mutated")
	assert.Equal(t, "internal", base.Params().Get("flag"))
}

func TestRequestDescriptor_ZeroValue(t *testing.T) {
	t.Parallel()

	var desc zoho.RequestDescriptor

	next := desc.WithParam("a", "b")
	assert.Equal(t, "b", next.Params().Get("a"))
	assert.Empty(t, desc.Params())
}

func TestRequestDescriptor_PageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 100},
		{"small", "25", 25},
		{"max", "100", 100},
		{"above max", "250", 100},
		{"zero", "0", 100},
		{"garbage", "many", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			desc := zoho.NewRequestDescriptor("", zoho.ResourcePortals)
			if tt.value != "" {
				desc = desc.WithParam("range", tt.value)
			}

			assert.Equal(t, tt.want, desc.PageSize())
		})
	}
}

func TestRequestDescriptor_ForChild(t *testing.T) {
	t.Parallel()

	parent := zoho.NewRequestDescriptor("https://example.test/", zoho.ResourceTasks.Bind("1", "2")).
		WithFilter(zoho.TaskByStatus(zoho.TaskStatusCompleted)).
		WithParam("range", "20").
		WithID("5")

	child := parent.ForChild("portal/1/projects/2/tasks/5/subtasks")

	assert.Equal(t, "https://example.test/portal/1/projects/2/tasks/5/subtasks/", child.URI())
	assert.Empty(t, child.ID())
	assert.Equal(t, "20", child.Params().Get("range"))
	assert.Empty(t, child.Params().Get("status"))
}

func TestResource_Allows(t *testing.T) {
	t.Parallel()

	desc := zoho.NewRequestDescriptor("", zoho.ResourcePortals)
	assert.True(t, desc.Allows(http.MethodGet))
	assert.False(t, desc.Allows(http.MethodPost))

	assert.True(t, zoho.ResourceTasks.Allows(http.MethodDelete))
	assert.False(t, zoho.ResourceCategories.Allows(http.MethodDelete))
	assert.False(t, zoho.ResourceSubtasks.Allows(http.MethodPost))
}

func TestResource_Bind(t *testing.T) {
	t.Parallel()

	bound := zoho.ResourceSubtasks.Bind("1", "2")
	assert.Equal(t, "portal/1/projects/2/tasks/{parent_id}/subtasks", bound.Path)
	assert.Equal(t, "portal/1/projects/2/tasks/3/subtasks", bound.ChildPath("3"))
	assert.Equal(t, "portal/{portal_id}/projects/{project_id}/tasks/{parent_id}/subtasks", zoho.ResourceSubtasks.Path)
	assert.False(t, bound.NeedsPortal())
	assert.False(t, bound.NeedsProject())

	portalOnly := zoho.ResourceTasks.Bind("1", "")
	assert.Equal(t, "portal/1/projects/{project_id}/tasks", portalOnly.Path)
	assert.False(t, portalOnly.NeedsPortal())
	assert.True(t, portalOnly.NeedsProject())

	unbound := zoho.ResourceProjects.Bind("", "")
	assert.True(t, unbound.NeedsPortal())
	assert.False(t, unbound.NeedsProject())
	assert.False(t, zoho.ResourcePortals.NeedsPortal())
}
