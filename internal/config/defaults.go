// Package config handles planner configuration.
package config

const (
	// DefaultDir is the default planner directory name.
	DefaultDir = ".effort"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultPriority is the default priority for new tasks.
	DefaultPriority = "normal"
	// DefaultDueQualifier is the qualifier used when a due date is given without one.
	DefaultDueQualifier = "by"
	// DefaultView is the view the TUI opens in.
	DefaultView = "active"
	// DefaultTitleLines is the default number of title lines in TUI cards.
	DefaultTitleLines = 2

	// BackendFiles stores one markdown file per task.
	BackendFiles = "files"
	// BackendSQLite stores tasks in a single SQLite database.
	BackendSQLite = "sqlite"
	// DefaultDBFile is the database file name for the sqlite backend.
	DefaultDBFile = "tasks.db"

	// ConfigFileName is the name of the config file within the planner directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// Backends lists the supported storage backends.
var Backends = []string{BackendFiles, BackendSQLite}

// Views lists the view names accepted for defaults.view.
var Views = []string{"active", "today", "completed", "archived"}
