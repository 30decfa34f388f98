package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/taskline/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist (or is soft-deleted)
	ErrNotFound = errors.New("record not found")
	// ErrNotInitialized is returned by Load when the database has not been created yet
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrAlreadyDeleted is returned when deleting a record that is already soft-deleted
	ErrAlreadyDeleted = errors.New("record is already deleted")
	// ErrNotDeleted is returned when restoring a record that is not deleted
	ErrNotDeleted = errors.New("record is not deleted")
	// ErrTimerActive is returned when starting a timer while another one is running
	ErrTimerActive = errors.New("a timer is already running")
	// ErrNoActiveTimer is returned when stopping a timer and none is running
	ErrNoActiveTimer = errors.New("no timer is running")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	GetTasksByProject(projectID string) ([]models.Task, error)
	GetAllTasksIncludingDeleted() ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(id string) error
	RestoreTask(id string) error

	// Projects
	AddProject(models.Project) error
	GetProject(id string) (models.Project, error)
	GetProjectByName(name string) (models.Project, error)
	GetAllProjects() ([]models.Project, error)
	GetAllProjectsIncludingDeleted() ([]models.Project, error)
	UpdateProject(models.Project) error
	DeleteProject(id string) error
	RestoreProject(id string) error

	// Time entries
	AddTimeEntry(models.TimeEntry) error
	GetTimeEntries() ([]models.TimeEntry, error)
	GetTimeEntriesForTask(taskID string) ([]models.TimeEntry, error)
	// GetActiveTimer returns the running entry, or ErrNoActiveTimer.
	GetActiveTimer() (models.TimeEntry, error)
	// StartTimer opens a new entry for the task. Only one entry may run at a time.
	StartTimer(taskID, description string, at time.Time) (models.TimeEntry, error)
	// StopTimer closes the running entry and records its duration in minutes.
	StopTimer(at time.Time) (models.TimeEntry, error)

	// Milestones
	AddMilestone(models.Milestone) error
	GetMilestone(id string) (models.Milestone, error)
	GetMilestonesByProject(projectID string) ([]models.Milestone, error)
	GetAllMilestones() ([]models.Milestone, error)
	UpdateMilestone(models.Milestone) error
	DeleteMilestone(id string) error

	// Tags
	AddTag(models.Tag) error
	GetTagByName(name string) (models.Tag, error)
	GetAllTags() ([]models.Tag, error)
	// DeleteTag removes the tag and every task association with it.
	DeleteTag(id string) error
	TagTask(taskID, tagID string) error
	UntagTask(taskID, tagID string) error
	GetTagsForTask(taskID string) ([]models.Tag, error)
	// GetTaskIDsByTag returns the ids of tasks carrying the tag, deleted tasks included.
	GetTaskIDsByTag(tagID string) ([]string, error)

	// Utils
	GetConfigPath() string
}
