// Package zoho provides types, interfaces, and helpers for working with the
// Zoho Projects REST API.
//
// # Overview
//
// The zoho package defines the domain types (Portal, Project, Task, Bug,
// Tasklist, Category), the typed filters accepted by each collection, and the
// interfaces of the resource clients. A concrete implementation is provided by
// the zohoclient package, which wires configuration, transport, OAuth2 token
// handling, and portal/project lookup.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/zoho-projects/pkg/zoho"
//	  "github.com/fivetwenty-io/zoho-projects/pkg/zohoclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := zohoclient.New(ctx, &zoho.Config{
//	    ClientID:     "1000.XXXX",
//	    ClientSecret: "secret",
//	    RefreshToken: "1000.refresh",
//	    PortalName:   "acme",
//	    ProjectName:  "Website",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  tasks := cli.Tasks().List(ctx, zoho.TaskByStatus(zoho.TaskStatusNotCompleted))
//	  for task, err := range tasks.Seq() {
//	    if err != nil { log.Fatal(err) }
//	    log.Println(task.Name)
//	  }
//	}
//
// # Pagination
//
// Collections are paged with index and range parameters and the API reports no
// total count. PaginationIterator keeps requesting pages while they come back
// full and stops at the first short page. A caller supplied range caps the page
// size for the whole iteration, up to 100.
//
// With an Expansion, items that report a nested collection (tasks with
// subtasks) are queued while the top level is read. Once the top level is
// exhausted the queued collections are read, most recent parent first.
//
// # Rate limiting
//
// The API allows 100 requests per two minutes. When the queued nested
// collections would exceed that budget the iterator logs a notice once and
// waits 1.2 seconds before every nested collection request past the 100th.
//
// # Errors
//
// Failures are returned as *TransportError, *ServerError, *DecodeError,
// *DisallowedMethodError or *RefreshFailure, or ErrEmptyResponse. A failed page
// ends the iteration: the error is returned once and ErrNoMoreItems follows.
package zoho
