package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/taskline/internal/backup"
	"github.com/julianstephens/taskline/internal/config"
	"github.com/julianstephens/taskline/internal/logger"
	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/storage/sqlite"
	"github.com/julianstephens/taskline/internal/timeline"
	"github.com/julianstephens/taskline/internal/utils"
)

// Migrator is implemented by stores with a versioned schema.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

type Context struct {
	Store      storage.Provider
	Engine     *timeline.Engine
	Config     *config.Config
	ConfigPath string

	// Location is the display timezone. Nil means the zone stored in settings, then Local.
	Location *time.Location
	Clock    func() time.Time

	Out io.Writer
	Err io.Writer
	In  io.Reader
}

// NewContext fills in the defaults for anything left unset.
func NewContext(store storage.Provider, cfg *config.Config) (*Context, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	engine, err := timeline.New(cfg.TimelineOptions())
	if err != nil {
		return nil, err
	}
	return &Context{
		Store:  store,
		Engine: engine,
		Config: cfg,
		Clock:  time.Now,
		Out:    os.Stdout,
		Err:    os.Stderr,
		In:     os.Stdin,
	}, nil
}

// ResolveLocation picks the display timezone: the flag value when set, otherwise the
// timezone saved in settings.
func (c *Context) ResolveLocation(flag string) error {
	name := flag
	if name == "" && c.Store != nil {
		if s, err := c.Store.GetSettings(); err == nil {
			name = s.Timezone
		}
	}
	loc, err := utils.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	c.Location = loc
	return nil
}

func (c *Context) Loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Now returns the current time in the display timezone.
func (c *Context) Now() time.Time {
	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().In(c.Loc())
}

// ParseDate parses a YYYY-MM-DD date (or today, tomorrow, yesterday, +Nd, -Nd) in the
// display timezone. Empty input yields nil.
func (c *Context) ParseDate(s string) (*time.Time, error) {
	return utils.ParseRelativeDate(strings.TrimSpace(s), c.Now())
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// Warnf writes a warning line to the error stream.
func (c *Context) Warnf(format string, args ...interface{}) {
	w := c.Err
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Confirm asks a yes/no question on the input stream. Anything but y/yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// BackupManager returns a manager for the SQLite database, or nil for other stores.
func (c *Context) BackupManager() *backup.Manager {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil
	}
	return backup.NewManager(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
