// Command report runs difflog sample scenarios and prints a change report,
// either styled for the terminal or as the raw JSON export.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
	"github.com/spf13/pflag"

	"github.com/mickamy/difflog"
)

type config struct {
	Sample string
	JSON   bool
	Indent string
	List   bool
}

func parseFlags() *config {
	cfg := &config{}

	pflag.StringVarP(&cfg.Sample, "sample", "s", "", "Run a single sample by name (default: run all).")
	pflag.BoolVarP(&cfg.JSON, "json", "j", false, "Print the raw JSON export instead of the styled report.")
	pflag.StringVarP(&cfg.Indent, "indent", "i", "  ", "Indent unit for JSON output (empty for compact).")
	pflag.BoolVarP(&cfg.List, "list", "l", false, "List available samples and exit.")

	pflag.Usage = func() {
		fmt.Println("Usage: report [flags]")
		fmt.Println("\nRun difflog sample scenarios and print the resulting change logs.")
		fmt.Println("\nExample: report -s lists -j")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()
	return cfg
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	editedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	pathStyle    = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

type sample struct {
	name string
	desc string
	run  func() (*difflog.ChangeLog, error)
}

func samples() []sample {
	return []sample{
		{name: "basic", desc: "add, edit and remove keys in a flat map", run: runBasic},
		{name: "nested", desc: "changes deep inside nested maps", run: runNested},
		{name: "lists", desc: "positional list semantics, including the removal cascade", run: runLists},
		{name: "objects", desc: "field changes on a struct-backed record", run: runObjects},
		{name: "manual", desc: "entries appended by hand, no capture", run: runManual},
		{name: "tracker", desc: "accumulating scopes with a Tracker and a key-path prefix", run: runTracker},
	}
}

func runBasic() (*difflog.ChangeLog, error) {
	data := map[string]any{"name": "John", "role": "admin"}
	return difflog.Track(data, func() error {
		data["name"] = "Jane"
		data["email"] = "jane@example.com"
		delete(data, "role")
		return nil
	})
}

func runNested() (*difflog.ChangeLog, error) {
	data := map[string]any{
		"user": map[string]any{
			"name": "John",
			"age":  30,
			"address": map[string]any{
				"city": "Tokyo",
				"zip":  "100-0001",
			},
		},
	}
	changes := difflog.New()
	cp := changes.Capture(data, "")
	user := data["user"].(map[string]any)
	user["age"] = 31
	user["address"].(map[string]any)["city"] = "Osaka"
	cp.Done()
	return changes, nil
}

func runLists() (*difflog.ChangeLog, error) {
	data := map[string]any{"items": []any{1, 2, 3, 4}}
	return difflog.Track(data, func() error {
		items := data["items"].([]any)
		// remove the element at index 1; every later index shifts
		data["items"] = append(items[:1], items[2:]...)
		return nil
	})
}

type account struct {
	ID     string
	Email  string
	Active bool
}

func runObjects() (*difflog.ChangeLog, error) {
	acc := &account{ID: uuid.NewString(), Email: "john@example.com", Active: true}
	return difflog.Track(acc, func() error {
		acc.Email = "jane@example.com"
		acc.Active = false
		return nil
	})
}

func runManual() (*difflog.ChangeLog, error) {
	changes := difflog.New()
	if err := changes.Add(difflog.ActionAdded, "user.name", nil, "John"); err != nil {
		return nil, err
	}
	if err := changes.Add(difflog.ActionEdited, "user.age", 30, 31); err != nil {
		return nil, err
	}
	if err := changes.Add(difflog.ActionRemoved, "user.legacy_id", uuid.NewString(), nil); err != nil {
		return nil, err
	}
	return changes, nil
}

func runTracker() (*difflog.ChangeLog, error) {
	tracker := difflog.NewTracker()

	profile := map[string]any{"name": "John", "theme": "light"}
	if err := tracker.TrackWithPrefix(profile, "user.", func() error {
		profile["theme"] = "dark"
		return nil
	}); err != nil {
		return nil, err
	}

	settings := map[string]any{"notifications": true}
	if err := tracker.TrackWithPrefix(settings, "settings.", func() error {
		settings["notifications"] = false
		settings["digest"] = "weekly"
		return nil
	}); err != nil {
		return nil, err
	}

	return tracker.ChangeLog(), nil
}

func render(name string, changes *difflog.ChangeLog, cfg *config) error {
	if cfg.JSON {
		out, err := changes.Serialize(cfg.Indent)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println(titleStyle.Render("== " + name + " =="))
	counts := map[difflog.Action]int{}
	for _, e := range changes.Entries() {
		counts[e.Action]++
		var detail string
		switch e.Action {
		case difflog.ActionAdded:
			detail = fmt.Sprintf("+ %v", e.NewValue)
		case difflog.ActionRemoved:
			detail = fmt.Sprintf("- %v", e.OldValue)
		default:
			detail = fmt.Sprintf("%v -> %v", e.OldValue, e.NewValue)
		}
		line := fmt.Sprintf("%-7s %s", e.Action, pathStyle.Render(e.KeyPath))
		fmt.Println("  " + styleFor(e.Action).Render(line) + "  " + faintStyle.Render(detail))
	}
	fmt.Println("  " + faintStyle.Render(summary(counts)))
	fmt.Println()
	return nil
}

func styleFor(action difflog.Action) lipgloss.Style {
	switch action {
	case difflog.ActionAdded:
		return addedStyle
	case difflog.ActionRemoved:
		return removedStyle
	default:
		return editedStyle
	}
}

// summary renders e.g. "4 changes (1 addition, 2 edits, 1 removal)".
func summary(counts map[difflog.Action]int) string {
	nouns := []struct {
		action difflog.Action
		noun   string
	}{
		{difflog.ActionAdded, "addition"},
		{difflog.ActionEdited, "edit"},
		{difflog.ActionRemoved, "removal"},
	}

	total := 0
	parts := make([]string, 0, len(nouns))
	for _, n := range nouns {
		count := counts[n.action]
		total += count
		if count == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", count, pluralize(n.noun, count)))
	}

	s := fmt.Sprintf("%d %s", total, pluralize("change", total))
	if len(parts) > 0 {
		s += " (" + strings.Join(parts, ", ") + ")"
	}
	return s
}

func pluralize(noun string, count int) string {
	if count == 1 {
		return noun
	}
	return inflection.Plural(noun)
}

func main() {
	cfg := parseFlags()
	all := samples()

	if cfg.List {
		for _, s := range all {
			fmt.Printf("%-8s %s\n", s.name, s.desc)
		}
		return
	}

	selected := all
	if cfg.Sample != "" {
		selected = nil
		for _, s := range all {
			if s.name == cfg.Sample {
				selected = []sample{s}
				break
			}
		}
		if selected == nil {
			fmt.Fprintf(os.Stderr, "unknown sample %q (try --list)\n", cfg.Sample)
			os.Exit(1)
		}
	}

	for _, s := range selected {
		changes, err := s.run()
		if err != nil {
			log.Fatalf("sample %s: %v", s.name, err)
		}
		if err := render(s.name, changes, cfg); err != nil {
			log.Fatalf("render %s: %v", s.name, err)
		}
	}
}
