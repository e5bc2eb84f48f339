package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/client"
	"github.com/noah-isme/class-schedule-api/internal/timetable"
	"github.com/noah-isme/class-schedule-api/internal/viewer"
	"github.com/noah-isme/class-schedule-api/pkg/config"
	"github.com/noah-isme/class-schedule-api/pkg/logger"
)

const usage = `usage: schedule-viewer <command> [flags]

commands:
  show                 print the grid, upcoming courses and statistics
  watch                show, then refresh the upcoming list until interrupted
  add    [form flags]  create a course
  edit   -id ID [form flags]  update a course; unset flags keep their values
  delete -id ID        delete a course
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := viewer.NewSession(client.New(cfg.Viewer.APIBase, cfg.Viewer.Timeout), viewer.SessionConfig{
		Notifier: viewer.NewWriterNotifier(os.Stderr),
		Logger:   logr,
	})
	_ = session.SyncSlots(ctx)

	args := os.Args[1:]
	command := "show"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	if err := run(ctx, session, cfg.Viewer, command, args, os.Stdout); err != nil {
		logr.Debug("command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, session *viewer.Session, cfg config.ViewerConfig, command string, args []string, out io.Writer) error {
	renderer := viewer.NewRenderer(out)

	switch command {
	case "show":
		_ = session.Load(ctx)
		return renderer.Render(session.Snapshot())

	case "watch":
		_ = session.Load(ctx)
		if err := renderer.Render(session.Snapshot()); err != nil {
			return err
		}
		interval := cfg.PollInterval
		if interval <= 0 {
			interval = viewer.DefaultPollInterval
		}
		session.StartPolling(ctx, interval)
		defer session.StopPolling()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				fmt.Fprintln(out) //nolint:errcheck
				if err := renderer.Upcoming(session.Snapshot().Upcoming); err != nil {
					return err
				}
			}
		}

	case "add", "edit":
		fs := flag.NewFlagSet(command, flag.ContinueOnError)
		id := fs.String("id", "", "course id to edit")
		form := formFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}

		state := timetable.Adding()
		current := timetable.CourseForm{}
		if command == "edit" {
			_ = session.Load(ctx)
			var err error
			if state, current, err = session.Edit(*id); err != nil {
				fmt.Fprintln(os.Stderr, err) //nolint:errcheck
				return err
			}
		}
		course, err := session.Save(ctx, state, form.apply(fs, current))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %s (%s)\n", course.CourseName, course.ID) //nolint:errcheck
		return renderer.Grid(session.Snapshot().Grid)

	case "delete":
		fs := flag.NewFlagSet(command, flag.ContinueOnError)
		id := fs.String("id", "", "course id to delete")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return session.Delete(ctx, timetable.Editing(*id))
	}

	fmt.Fprint(os.Stderr, usage) //nolint:errcheck
	return fmt.Errorf("unknown command %q", command)
}

type courseFlags struct {
	name, teacher, classroom, weeks, credit, notes *string
	day, start, end                                *int
}

func formFlags(fs *flag.FlagSet) courseFlags {
	return courseFlags{
		name:      fs.String("name", "", "course name"),
		teacher:   fs.String("teacher", "", "teacher"),
		classroom: fs.String("classroom", "", "classroom"),
		weeks:     fs.String("weeks", "", "week range, e.g. 1-16"),
		credit:    fs.String("credit", "", "credit"),
		notes:     fs.String("notes", "", "notes"),
		day:       fs.Int("day", 0, "day of week, 1 (Monday) to 7 (Sunday)"),
		start:     fs.Int("start", 0, "first period"),
		end:       fs.Int("end", 0, "last period"),
	}
}

// apply overlays the flags that were set on base.
func (f courseFlags) apply(fs *flag.FlagSet, base timetable.CourseForm) timetable.CourseForm {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			base.Name = *f.name
		case "teacher":
			base.Teacher = *f.teacher
		case "classroom":
			base.Classroom = *f.classroom
		case "weeks":
			base.WeekRange = *f.weeks
		case "credit":
			base.Credit = *f.credit
		case "notes":
			base.Notes = *f.notes
		case "day":
			base.Day = *f.day
		case "start":
			base.StartPeriod = *f.start
		case "end":
			base.EndPeriod = *f.end
		}
	})
	return base
}
