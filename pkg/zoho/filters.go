package zoho

import (
	"strconv"
	"strings"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
)

// Filter is a single query parameter accepted by a collection endpoint.
type Filter interface {
	Key() string
	Value() string
}

// SortOrder is the order of a sorted collection.
type SortOrder string

// Sort orders.
const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// SortColumn is the column a collection is sorted by.
type SortColumn string

// Sort columns.
const (
	SortByCreatedTime      SortColumn = "created_time"
	SortByLastModifiedTime SortColumn = "last_modified_time"
)

// Flag is the visibility flag of bugs and tasklists.
type Flag string

// Flags.
const (
	FlagInternal Flag = "internal"
	FlagExternal Flag = "external"
	FlagAll      Flag = "allflag"
)

// TaskStatus selects tasks by completion.
type TaskStatus string

// Task statuses.
const (
	TaskStatusAll          TaskStatus = "all"
	TaskStatusCompleted    TaskStatus = "completed"
	TaskStatusNotCompleted TaskStatus = "notcompleted"
)

// TaskTime selects tasks by due date.
type TaskTime string

// Task time windows.
const (
	TaskTimeAll      TaskTime = "all"
	TaskTimeOverdue  TaskTime = "overdue"
	TaskTimeToday    TaskTime = "today"
	TaskTimeTomorrow TaskTime = "tomorrow"
)

// Priority is a task priority.
type Priority string

// Priorities.
const (
	PriorityAll    Priority = "all"
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// StatusType selects bugs by open or closed state.
type StatusType string

// Status types.
const (
	StatusTypeOpen   StatusType = "open"
	StatusTypeClosed StatusType = "closed"
	StatusTypeAll    StatusType = "all"
)

// IDList formats ids the way the API expects multi-value filters: [1,2,3].
func IDList(ids ...int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}

	return "[" + strings.Join(parts, ",") + "]"
}

type param struct {
	key   string
	value string
}

func rangeParam(size int) param {
	return param{constants.RangeParam, strconv.Itoa(size)}
}

func (p param) Key() string   { return p.key }
func (p param) Value() string { return p.value }

// TaskFilter filters the task collection.
type TaskFilter struct{ param }

// TaskOwner filters tasks by owner ids.
func TaskOwner(ids ...int64) TaskFilter {
	return TaskFilter{param{"owner", IDList(ids...)}}
}

// TaskByStatus filters tasks by completion status.
func TaskByStatus(status TaskStatus) TaskFilter {
	return TaskFilter{param{"status", string(status)}}
}

// TaskByTime filters tasks by due date window.
func TaskByTime(window TaskTime) TaskFilter {
	return TaskFilter{param{"time", string(window)}}
}

// TaskByPriority filters tasks by priority.
func TaskByPriority(priority Priority) TaskFilter {
	return TaskFilter{param{"priority", string(priority)}}
}

// TaskInTasklist restricts tasks to one tasklist.
func TaskInTasklist(id int64) TaskFilter {
	return TaskFilter{param{"tasklist_id", strconv.FormatInt(id, 10)}}
}

// TaskCustomStatus filters tasks by custom status ids.
func TaskCustomStatus(ids ...int64) TaskFilter {
	return TaskFilter{param{"custom_status", IDList(ids...)}}
}

// TaskPageSize caps the page size of the listing. Values above 100 are clamped.
func TaskPageSize(size int) TaskFilter {
	return TaskFilter{rangeParam(size)}
}

// BugFilter filters the bug collection.
type BugFilter struct{ param }

func bugIDs(key string, ids []int64) BugFilter {
	return BugFilter{param{key, IDList(ids...)}}
}

// BugStatus filters bugs by status ids.
func BugStatus(ids ...int64) BugFilter { return bugIDs("status", ids) }

// BugSeverity filters bugs by severity ids.
func BugSeverity(ids ...int64) BugFilter { return bugIDs("severity", ids) }

// BugClassification filters bugs by classification ids.
func BugClassification(ids ...int64) BugFilter { return bugIDs("classification", ids) }

// BugModule filters bugs by module ids.
func BugModule(ids ...int64) BugFilter { return bugIDs("module", ids) }

// BugMilestone filters bugs by milestone ids.
func BugMilestone(ids ...int64) BugFilter { return bugIDs("milestone", ids) }

// BugAssignee filters bugs by assignee ids.
func BugAssignee(ids ...int64) BugFilter { return bugIDs("assignee", ids) }

// BugEscalation filters bugs by escalation level ids.
func BugEscalation(ids ...int64) BugFilter { return bugIDs("escalation", ids) }

// BugReporter filters bugs by reporter ids.
func BugReporter(ids ...int64) BugFilter { return bugIDs("reporter", ids) }

// BugAffected filters bugs by affected milestone ids.
func BugAffected(ids ...int64) BugFilter { return bugIDs("affected", ids) }

// BugSortColumn sorts bugs by a column.
func BugSortColumn(column SortColumn) BugFilter {
	return BugFilter{param{"sort_column", string(column)}}
}

// BugSortOrder sets the bug sort order.
func BugSortOrder(order SortOrder) BugFilter {
	return BugFilter{param{"sort_order", string(order)}}
}

// BugFlag filters bugs by visibility.
func BugFlag(flag Flag) BugFilter {
	return BugFilter{param{"flag", string(flag)}}
}

// BugCustomView selects a saved custom view.
func BugCustomView(id int64) BugFilter {
	return BugFilter{param{"cview_id", strconv.FormatInt(id, 10)}}
}

// BugStatusType filters bugs by open or closed state.
func BugStatusType(statusType StatusType) BugFilter {
	return BugFilter{param{"statustype", string(statusType)}}
}

// BugPageSize caps the page size of the listing. Values above 100 are clamped.
func BugPageSize(size int) BugFilter {
	return BugFilter{rangeParam(size)}
}

// TasklistFilter filters the tasklist collection.
type TasklistFilter struct{ param }

// TasklistFlag filters tasklists by visibility.
func TasklistFlag(flag Flag) TasklistFilter {
	return TasklistFilter{param{"flag", string(flag)}}
}

// TasklistMilestone restricts tasklists to one milestone.
func TasklistMilestone(id int64) TasklistFilter {
	return TasklistFilter{param{"milestone", strconv.FormatInt(id, 10)}}
}

// TasklistPageSize caps the page size of the listing. Values above 100 are clamped.
func TasklistPageSize(size int) TasklistFilter {
	return TasklistFilter{rangeParam(size)}
}

// ProjectFilter filters the project collection.
type ProjectFilter struct{ param }

// ProjectStatus filters projects by status, e.g. active, archived or template.
func ProjectStatus(status string) ProjectFilter {
	return ProjectFilter{param{"status", status}}
}

// ProjectSortColumn sorts projects by a column.
func ProjectSortColumn(column SortColumn) ProjectFilter {
	return ProjectFilter{param{"sort_column", string(column)}}
}

// ProjectSortOrder sets the project sort order.
func ProjectSortOrder(order SortOrder) ProjectFilter {
	return ProjectFilter{param{"sort_order", string(order)}}
}

// ProjectPageSize caps the page size of the listing. Values above 100 are clamped.
func ProjectPageSize(size int) ProjectFilter {
	return ProjectFilter{rangeParam(size)}
}
