package zoho

import (
	"strconv"
)

// Link represents a single link.
type Link struct {
	URL string `json:"url" yaml:"url"`
}

// Links represents the self/api links carried by most resources.
type Links struct {
	Self Link `json:"self,omitempty" yaml:"self,omitempty"`
	Web  Link `json:"web,omitempty"  yaml:"web,omitempty"`
}

// Portal represents a Zoho Projects portal.
type Portal struct {
	ID       int64  `json:"id"        yaml:"id"`
	IDString string `json:"id_string" yaml:"id_string"`
	Name     string `json:"name"      yaml:"name"`
	Default  bool   `json:"default"   yaml:"default"`
	Role     string `json:"role"      yaml:"role"`
}

// Identifier returns the portal id as a path segment.
func (p Portal) Identifier() string {
	return identifier(p.IDString, p.ID)
}

// Project represents a project within a portal.
type Project struct {
	ID          int64  `json:"id"           yaml:"id"`
	IDString    string `json:"id_string"    yaml:"id_string"`
	Key         string `json:"key"          yaml:"key"`
	Name        string `json:"name"         yaml:"name"`
	Description string `json:"description"  yaml:"description"`
	Status      string `json:"status"       yaml:"status"`
	OwnerName   string `json:"owner_name"   yaml:"owner_name"`
	CreatedDate string `json:"created_date" yaml:"created_date"`
	Link        Links  `json:"link"         yaml:"link"`
}

// Identifier returns the project id as a path segment.
func (p Project) Identifier() string {
	return identifier(p.IDString, p.ID)
}

// Status represents the status block shared by tasks and bugs.
type Status struct {
	ID        string `json:"id,omitempty"         yaml:"id,omitempty"`
	Name      string `json:"name,omitempty"       yaml:"name,omitempty"`
	Type      string `json:"type,omitempty"       yaml:"type,omitempty"`
	ColorCode string `json:"color_code,omitempty" yaml:"color_code,omitempty"`
}

// Owner represents a user assigned to a task.
type Owner struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// TaskDetails carries the owners of a task.
type TaskDetails struct {
	Owners []Owner `json:"owners,omitempty" yaml:"owners,omitempty"`
}

// TasklistRef is the tasklist a task belongs to.
type TasklistRef struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Task represents a task. Subtasks reports whether the task has a child collection.
type Task struct {
	ID              int64        `json:"id"                         yaml:"id"`
	IDString        string       `json:"id_string"                  yaml:"id_string"`
	Key             string       `json:"key"                        yaml:"key"`
	Name            string       `json:"name"                       yaml:"name"`
	Description     string       `json:"description,omitempty"      yaml:"description,omitempty"`
	Completed       bool         `json:"completed"                  yaml:"completed"`
	CreatedBy       string       `json:"created_by,omitempty"       yaml:"created_by,omitempty"`
	Priority        string       `json:"priority,omitempty"         yaml:"priority,omitempty"`
	PercentComplete string       `json:"percent_complete,omitempty" yaml:"percent_complete,omitempty"`
	StartDate       string       `json:"start_date,omitempty"       yaml:"start_date,omitempty"`
	EndDate         string       `json:"end_date,omitempty"         yaml:"end_date,omitempty"`
	CreatedTime     string       `json:"created_time,omitempty"     yaml:"created_time,omitempty"`
	Status          Status       `json:"status"                     yaml:"status"`
	Details         TaskDetails  `json:"details"                    yaml:"details"`
	Tasklist        *TasklistRef `json:"tasklist,omitempty"         yaml:"tasklist,omitempty"`
	Subtasks        bool         `json:"subtasks"                   yaml:"subtasks"`
	ParentTaskID    string       `json:"parent_task_id,omitempty"   yaml:"parent_task_id,omitempty"`
	Link            Links        `json:"link"                       yaml:"link"`
}

// Identifier returns the task id as a path segment.
func (t Task) Identifier() string {
	return identifier(t.IDString, t.ID)
}

// TypedValue is the {type} block used by bug status, severity and classification.
type TypedValue struct {
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// NamedValue is the {id,name} block used by bug module and milestone.
type NamedValue struct {
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Bug represents an issue tracked in a project.
type Bug struct {
	ID             int64      `json:"id"                       yaml:"id"`
	IDString       string     `json:"id_string"                yaml:"id_string"`
	Key            string     `json:"key"                      yaml:"key"`
	Title          string     `json:"title"                    yaml:"title"`
	Description    string     `json:"description,omitempty"    yaml:"description,omitempty"`
	ReporterName   string     `json:"reporter_name,omitempty"  yaml:"reporter_name,omitempty"`
	AssigneeName   string     `json:"assignee_name,omitempty"  yaml:"assignee_name,omitempty"`
	Flag           string     `json:"flag,omitempty"           yaml:"flag,omitempty"`
	Closed         bool       `json:"closed"                   yaml:"closed"`
	CreatedTime    string     `json:"created_time,omitempty"   yaml:"created_time,omitempty"`
	Status         TypedValue `json:"status"                   yaml:"status"`
	Severity       TypedValue `json:"severity"                 yaml:"severity"`
	Classification TypedValue `json:"classification"           yaml:"classification"`
	Module         NamedValue `json:"module"                   yaml:"module"`
	Milestone      NamedValue `json:"milestone"                yaml:"milestone"`
	Link           Links      `json:"link"                     yaml:"link"`
}

// Identifier returns the bug id as a path segment.
func (b Bug) Identifier() string {
	return identifier(b.IDString, b.ID)
}

// Tasklist represents a tasklist.
type Tasklist struct {
	ID          int64       `json:"id"                     yaml:"id"`
	IDString    string      `json:"id_string"              yaml:"id_string"`
	Name        string      `json:"name"                   yaml:"name"`
	Flag        string      `json:"flag,omitempty"         yaml:"flag,omitempty"`
	Completed   bool        `json:"completed"              yaml:"completed"`
	Rolled      bool        `json:"rolled"                 yaml:"rolled"`
	Sequence    int         `json:"sequence"               yaml:"sequence"`
	ViewType    string      `json:"view_type,omitempty"    yaml:"view_type,omitempty"`
	CreatedTime string      `json:"created_time,omitempty" yaml:"created_time,omitempty"`
	Milestone   *NamedValue `json:"milestone,omitempty"    yaml:"milestone,omitempty"`
	Link        Links       `json:"link"                   yaml:"link"`
}

// Identifier returns the tasklist id as a path segment.
func (t Tasklist) Identifier() string {
	return identifier(t.IDString, t.ID)
}

// Category represents a forum category.
type Category struct {
	ID   int64  `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Identifier returns the category id as a path segment.
func (c Category) Identifier() string {
	return identifier("", c.ID)
}

func identifier(idString string, id int64) string {
	if idString != "" {
		return idString
	}

	return strconv.FormatInt(id, 10)
}

// TaskCreateRequest is the form payload for creating a task.
type TaskCreateRequest struct {
	Name        string   `url:"name"                         validate:"required"`
	Description string   `url:"description,omitempty"`
	TasklistID  string   `url:"tasklist_id,omitempty"        validate:"omitempty,numeric"`
	Owners      []string `url:"person_responsible,omitempty" del:","`
	StartDate   string   `url:"start_date,omitempty"`
	EndDate     string   `url:"end_date,omitempty"`
	Priority    Priority `url:"priority,omitempty"`
}

// TaskUpdateRequest is the form payload for updating a task. Empty fields are not sent.
type TaskUpdateRequest struct {
	Name            string   `url:"name,omitempty"`
	Description     string   `url:"description,omitempty"`
	Owners          []string `url:"person_responsible,omitempty" del:","`
	StartDate       string   `url:"start_date,omitempty"`
	EndDate         string   `url:"end_date,omitempty"`
	Priority        Priority `url:"priority,omitempty"`
	PercentComplete *int     `url:"percent_complete,omitempty"   validate:"omitempty,min=0,max=100"`
	CustomStatus    string   `url:"custom_status,omitempty"`
}

// BugCreateRequest is the form payload for creating a bug.
type BugCreateRequest struct {
	Title            string `url:"title"                       validate:"required"`
	Description      string `url:"description,omitempty"`
	AssigneeID       string `url:"assignee,omitempty"`
	Flag             Flag   `url:"flag,omitempty"`
	SeverityID       string `url:"severity_id,omitempty"`
	ClassificationID string `url:"classification_id,omitempty"`
	ModuleID         string `url:"module_id,omitempty"`
	MilestoneID      string `url:"milestone_id,omitempty"`
}

// BugUpdateRequest is the form payload for updating a bug. Empty fields are not sent.
type BugUpdateRequest struct {
	Title       string `url:"title,omitempty"`
	Description string `url:"description,omitempty"`
	AssigneeID  string `url:"assignee,omitempty"`
	StatusID    string `url:"status_id,omitempty"`
	SeverityID  string `url:"severity_id,omitempty"`
	Flag        Flag   `url:"flag,omitempty"`
}

// TasklistCreateRequest is the form payload for creating a tasklist.
type TasklistCreateRequest struct {
	Name        string `url:"name"                   validate:"required"`
	Flag        Flag   `url:"flag,omitempty"`
	MilestoneID string `url:"milestone_id,omitempty"`
}

// TasklistUpdateRequest is the form payload for updating a tasklist.
type TasklistUpdateRequest struct {
	Name        string `url:"name,omitempty"`
	Flag        Flag   `url:"flag,omitempty"`
	MilestoneID string `url:"milestone_id,omitempty"`
	Status      string `url:"status,omitempty"`
}

// CategoryCreateRequest is the form payload for creating a forum category.
type CategoryCreateRequest struct {
	Name string `url:"name" validate:"required"`
}
