// Package dto provides typed request and response shapes for the admin handlers.
package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/aiowing/aiowing/internal/model"
)

// Command is the write operation selected by a records form submission.
type Command int

// Commands in dispatch priority order.
const (
	CommandNone Command = iota
	CommandCreate
	CommandUpdate
	CommandDelete
)

// String returns the command name used in logs.
func (c Command) String() string {
	switch c {
	case CommandCreate:
		return "create"
	case CommandUpdate:
		return "update"
	case CommandDelete:
		return "delete"
	default:
		return "none"
	}
}

// Status tags returned to the records page script.
const (
	StatusCreate     = "create"
	StatusNotCreated = "not_created"
	StatusUpdate     = "update"
	StatusNotUpdated = "not_updated"
	StatusDelete     = "delete"
	StatusNotDeleted = "not_deleted"
	StatusNotCommand = "not_command"
)

// SuccessStatus returns the tag for a successful command.
func (c Command) SuccessStatus() string {
	switch c {
	case CommandCreate:
		return StatusCreate
	case CommandUpdate:
		return StatusUpdate
	case CommandDelete:
		return StatusDelete
	default:
		return StatusNotCommand
	}
}

// FailureStatus returns the tag for a failed command.
func (c Command) FailureStatus() string {
	switch c {
	case CommandCreate:
		return StatusNotCreated
	case CommandUpdate:
		return StatusNotUpdated
	case CommandDelete:
		return StatusNotDeleted
	default:
		return StatusNotCommand
	}
}

// RecordForm is the parsed body of POST /admin/records.
//
// Presence flags (Create, Update, Delete, Active) are true when the field
// was submitted with any value, including empty. Name is trimmed.
// Description is nil when the field is absent. Page falls back to 1 when
// missing or not an integer.
type RecordForm struct {
	Create      bool
	Update      bool
	Delete      bool
	UID         string
	Active      bool
	Name        string
	Description *string
	Page        int
}

// ParseRecordForm reads a records form from already-parsed form values.
func ParseRecordForm(form url.Values) RecordForm {
	f := RecordForm{
		Create: form.Has("create"),
		Update: form.Has("update"),
		Delete: form.Has("delete"),
		UID:    form.Get("uid"),
		Active: form.Has("active"),
		Name:   strings.TrimSpace(form.Get("name")),
		Page:   parsePage(form.Get("page")),
	}
	if form.Has("description") {
		desc := form.Get("description")
		f.Description = &desc
	}
	return f
}

// Command picks the operation by priority create, update, delete. A flag
// only counts when the fields it needs are present.
func (f RecordForm) Command() Command {
	switch {
	case f.Create && f.Active && f.Name != "":
		return CommandCreate
	case f.Update && f.UID != "" && f.Active && f.Name != "":
		return CommandUpdate
	case f.Delete && f.UID != "":
		return CommandDelete
	default:
		return CommandNone
	}
}

// Record builds the record the command writes.
func (f RecordForm) Record() *model.Record {
	return &model.Record{
		ID:          f.UID,
		Active:      f.Active,
		Name:        f.Name,
		Description: f.Description,
	}
}

// ParsePage reads the page query parameter of GET /admin/records.
func ParsePage(query url.Values) int {
	return parsePage(query.Get("page"))
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return page
}

// RecordCommandResponse is the JSON envelope of POST /admin/records.
type RecordCommandResponse struct {
	Status     string `json:"status"`
	RecordList string `json:"record_list"`
}
