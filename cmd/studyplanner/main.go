// Command studyplanner is a line-oriented client for the planner core.
// It runs against the local file store by default, or against a remote
// backend with -server.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"studyplanner/internal/analytics"
	"studyplanner/internal/config"
	"studyplanner/internal/model"
	"studyplanner/internal/planner"
	"studyplanner/internal/pomodoro"
	"studyplanner/internal/prefs"
	"studyplanner/internal/schedule"
	"studyplanner/internal/session"
	"studyplanner/internal/store"
	"studyplanner/internal/syncer"
)

type app struct {
	session     *session.Session
	ctrl        *syncer.Controller
	prefs       *prefs.Manager
	timetable   *planner.Timetable
	assignments *planner.Assignments
	exams       *planner.Exams
	notes       *planner.Notes
	focus       *planner.FocusLog
	engine      *pomodoro.Engine
	focusLabel  string
}

func main() {
	dataDir := flag.String("data", defaultDataDir(), "directory for local data")
	serverURL := flag.String("server", "", "backend URL; empty runs on the local store")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pm, err := prefs.NewManager(filepath.Join(*dataDir, "prefs.json"))
	if err != nil {
		log.Fatalf("prefs: %v", err)
	}

	var st store.Store
	if *serverURL != "" {
		st = store.NewRemote(*serverURL, nil)
	} else {
		local, err := store.OpenLocal(filepath.Join(*dataDir, "users.json"))
		if err != nil {
			log.Fatalf("local store: %v", err)
		}
		st = local
	}

	ctrl := syncer.New(st, cfg.SyncDebounce, nil)
	a := &app{
		session:     session.New(st, ctrl, pm, nil),
		ctrl:        ctrl,
		prefs:       pm,
		timetable:   planner.NewTimetable(ctrl),
		assignments: planner.NewAssignments(ctrl),
		exams:       planner.NewExams(ctrl),
		notes:       planner.NewNotes(ctrl),
		focus:       planner.NewFocusLog(ctrl),
	}

	p := pm.Get()
	a.engine, err = pomodoro.New(pomodoro.Settings{
		StudyMinutes: p.StudyMinutes,
		BreakMinutes: p.BreakMinutes,
	}, a.onSegmentComplete)
	if err != nil {
		log.Fatalf("timer: %v", err)
	}

	scheduler := schedule.New(time.Local)
	if _, err := scheduler.ScheduleDaily("00:00", a.rollOverDaily); err != nil {
		log.Fatalf("schedule daily reset: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if id, ok := a.session.Resume(ctx); ok {
		fmt.Printf("Welcome back, %s.\n", id.Email)
	}

	a.repl(ctx)
	a.session.Logout(context.Background())
}

func (a *app) onSegmentComplete(typ model.SegmentType, minutes int) {
	label := a.focusLabel
	if typ == model.SegmentBreak {
		label = "Break"
	}
	if _, err := a.focus.LogSegment(label, minutes, typ, time.Now()); err != nil {
		log.Printf("record segment: %v", err)
		return
	}
	fmt.Printf("\n%s segment finished (%d min). Next up: %s.\n> ", typ, minutes, a.engine.Mode())
}

func (a *app) rollOverDaily() {
	if err := a.focus.ResetDaily(); err != nil && !errors.Is(err, syncer.ErrNoSession) {
		log.Printf("daily reset: %v", err)
	}
}

func (a *app) repl(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		args := strings.Fields(scanner.Text())
		if len(args) > 0 {
			if args[0] == "quit" || args[0] == "exit" {
				return
			}
			if err := a.dispatch(ctx, args); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		}
		fmt.Print("> ")
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "register":
		if len(args) < 4 {
			return fmt.Errorf("usage: register <email> <password> <name>")
		}
		id, err := a.session.Register(ctx, args[1], args[2], strings.Join(args[3:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s.\n", id.Email)
	case "login":
		if len(args) < 3 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		id, err := a.session.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s.\n", id.Email)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("Signed out.")
	case "whoami":
		if id, ok := a.session.Current(); ok {
			fmt.Println(id.Email)
		} else {
			fmt.Println("not signed in")
		}
	case "class":
		return a.classCmd(args[1:])
	case "task":
		return a.taskCmd(args[1:])
	case "exam":
		return a.examCmd(args[1:])
	case "note":
		return a.noteCmd(args[1:])
	case "focus":
		return a.focusCmd(args[1:])
	case "report":
		return a.report()
	case "theme":
		if len(args) < 2 {
			return fmt.Errorf("usage: theme <light|dark>")
		}
		return a.session.SetTheme(args[1])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func (a *app) classCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: class add|list|rm ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 5 {
			return fmt.Errorf("usage: class add <day> <start> <end> <subject>")
		}
		entry, err := a.timetable.Add(planner.TimetableInput{
			Day:       model.Day(args[1]),
			StartTime: args[2],
			EndTime:   args[3],
			Subject:   strings.Join(args[4:], " "),
			Color:     "#6366f1",
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s).\n", entry.Subject, shortID(entry.ID))
	case "list":
		day := model.Day("")
		if len(args) > 1 {
			day = model.Day(args[1])
		}
		for _, d := range model.Days {
			if day != "" && d != day {
				continue
			}
			entries, err := a.timetable.ForDay(d)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %s-%s  %-20s %s\n", d, e.StartTime, e.EndTime, e.Subject, shortID(e.ID))
			}
		}
	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: class rm <id>")
		}
		entries, err := a.timetable.List()
		if err != nil {
			return err
		}
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		id, err := resolveID(ids, args[1])
		if err != nil {
			return err
		}
		return a.timetable.Remove(id)
	default:
		return fmt.Errorf("unknown class command %q", args[0])
	}
	return nil
}

func (a *app) taskCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: task add|list|done|rm ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("usage: task add <due yyyy-mm-dd> <subject> <title>")
		}
		task, err := a.assignments.Add(planner.AssignmentInput{
			DueDate: args[1],
			Subject: args[2],
			Title:   strings.Join(args[3:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %q due %s (%s).\n", task.Title, task.DueDate, shortID(task.ID))
	case "list":
		pending, err := a.assignments.Pending()
		if err != nil {
			return err
		}
		for _, t := range pending {
			fmt.Printf("[ ] %s  %-8s %-20s %s\n", t.DueDate, t.Priority, t.Title, shortID(t.ID))
		}
		done, err := a.assignments.Completed()
		if err != nil {
			return err
		}
		for _, t := range done {
			fmt.Printf("[x] %s  %-8s %-20s %s\n", t.DueDate, t.Priority, t.Title, shortID(t.ID))
		}
	case "done":
		if len(args) < 2 {
			return fmt.Errorf("usage: task done <id>")
		}
		id, err := a.resolveAssignment(args[1])
		if err != nil {
			return err
		}
		task, err := a.assignments.ToggleComplete(id)
		if err != nil {
			return err
		}
		fmt.Printf("%q completed=%v.\n", task.Title, task.Completed)
	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: task rm <id>")
		}
		id, err := a.resolveAssignment(args[1])
		if err != nil {
			return err
		}
		return a.assignments.Remove(id)
	default:
		return fmt.Errorf("unknown task command %q", args[0])
	}
	return nil
}

func (a *app) examCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: exam add|list ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 5 {
			return fmt.Errorf("usage: exam add <date yyyy-mm-dd> <start> <subject> <name>")
		}
		exam, err := a.exams.Add(planner.ExamInput{
			Date:      args[1],
			StartTime: args[2],
			Subject:   args[3],
			Name:      strings.Join(args[4:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s %s (%s).\n", exam.Subject, exam.Name, shortID(exam.ID))
	case "list":
		now := time.Now()
		upcoming, err := a.exams.Upcoming(now)
		if err != nil {
			return err
		}
		fmt.Println("Upcoming:")
		for _, e := range upcoming {
			fmt.Printf("  %s %s  %s: %s %s\n", e.Date, e.StartTime, e.Subject, e.Name, shortID(e.ID))
		}
		past, err := a.exams.Past(now)
		if err != nil {
			return err
		}
		if len(past) > 0 {
			fmt.Println("Past:")
			for _, e := range past {
				fmt.Printf("  %s  %s: %s %s\n", e.Date, e.Subject, e.Name, shortID(e.ID))
			}
		}
	default:
		return fmt.Errorf("unknown exam command %q", args[0])
	}
	return nil
}

func (a *app) noteCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: note add|list|find ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: note add <title> [content]")
		}
		note, err := a.notes.Add(planner.NoteInput{
			Title:   args[1],
			Content: strings.Join(args[2:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added note %q (%s).\n", note.Title, shortID(note.ID))
	case "list":
		notes, err := a.notes.List()
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Printf("%s  %-20s %s\n", n.Date.Format("2006-01-02"), n.Title, shortID(n.ID))
		}
	case "find":
		if len(args) < 2 {
			return fmt.Errorf("usage: note find <query>")
		}
		notes, err := a.notes.Search(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Printf("%-20s %s\n", n.Title, n.Content)
		}
	default:
		return fmt.Errorf("unknown note command %q", args[0])
	}
	return nil
}

func (a *app) focusCmd(args []string) error {
	if len(args) == 0 {
		fmt.Printf("%s  %02d:%02d  running=%v\n", a.engine.Mode(),
			a.engine.TimeLeft()/60, a.engine.TimeLeft()%60, a.engine.Running())
		return nil
	}
	switch args[0] {
	case "start":
		if len(args) > 1 {
			a.focusLabel = strings.Join(args[1:], " ")
		}
		if a.focusLabel == "" {
			return fmt.Errorf("usage: focus start <subject>")
		}
		a.engine.Start()
		fmt.Printf("Focusing on %s.\n", a.focusLabel)
	case "pause":
		a.engine.Pause()
	case "reset":
		a.engine.Reset()
	case "break":
		a.engine.SwitchMode(model.SegmentBreak)
		a.engine.Start()
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("usage: focus set <study-min> <break-min>")
		}
		study, err1 := strconv.Atoi(args[1])
		rest, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("durations must be numbers")
		}
		settings := pomodoro.Settings{StudyMinutes: study, BreakMinutes: rest}
		if err := a.engine.Configure(settings); err != nil {
			return err
		}
		return a.prefs.Update(func(p *prefs.Prefs) {
			p.StudyMinutes = study
			p.BreakMinutes = rest
		})
	default:
		return fmt.Errorf("unknown focus command %q", args[0])
	}
	return nil
}

func (a *app) report() error {
	stats, err := a.focus.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Today: %d min   Lifetime: %dh %dm   Sessions: %d\n",
		stats.Daily, stats.Total/60, stats.Total%60, stats.Sessions)

	entries, err := a.focus.Entries()
	if err != nil {
		return err
	}
	for _, lt := range analytics.Distribution(entries) {
		fmt.Printf("  %-20s %d min\n", lt.Label, lt.Minutes)
	}
	if top, ok := analytics.MostFocused(entries); ok {
		fmt.Printf("Most focused: %s\n", top.Label)
	}
	if low, ok := analytics.NeedsAttention(entries); ok {
		fmt.Printf("Needs attention: %s\n", low.Label)
	}
	return nil
}

func (a *app) resolveAssignment(prefix string) (string, error) {
	tasks, err := a.assignments.List()
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID(ids, prefix)
}

// resolveID matches a unique id prefix against the known ids.
func resolveID(ids []string, prefix string) (string, error) {
	var match string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("ambiguous id %q", prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no entry with id %q", prefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyplanner"
	}
	return filepath.Join(home, ".studyplanner")
}
