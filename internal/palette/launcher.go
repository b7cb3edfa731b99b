package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// launcher drives a dmenu-compatible program: rows on stdin, the selection
// (label or index) on stdout.
type launcher struct {
	command string
	kind    launcherKind

	markup      bool // -markup-rows style escaping
	indexOutput bool // prints the selected row index instead of its text

	// run executes the command, replaced in tests.
	run func(name string, args []string, stdin string) (string, error)
}

func newRofi() *launcher {
	return &launcher{command: "rofi", kind: kindRofi, markup: true, indexOutput: true, run: runCommand}
}

func newFuzzel() *launcher {
	return &launcher{command: "fuzzel", kind: kindFuzzel, indexOutput: true, run: runCommand}
}

func newWofi() *launcher {
	return &launcher{command: "wofi", kind: kindWofi, markup: true, run: runCommand}
}

func newDmenu() *launcher {
	return &launcher{command: "dmenu", kind: kindDmenu, run: runCommand}
}

func (b *launcher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	rows := make([]Item, len(items))
	copy(rows, items)

	input, selected := b.formatInput(rows)
	out, err := b.run(b.command, b.buildArgs(prompt, message, rows, selected), input)
	selection := strings.TrimSpace(out)
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		return Item{}, fmt.Errorf("%s failed: %w", b.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := b.parseSelection(selection, rows)
	if err != nil {
		return Item{}, err
	}
	if item.IsHeader {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (b *launcher) buildArgs(prompt, message string, rows []Item, selected int) []string {
	var args []string
	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		var active []string
		for i, r := range rows {
			if r.IsActive && !r.IsHeader {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindWofi:
		args = []string{"--dmenu", "--allow-markup"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

// formatInput renders rows one per line and returns the row to preselect:
// the first active row, otherwise the first selectable one.
func (b *launcher) formatInput(rows []Item) (string, int) {
	// Text-matching launchers need unique labels.
	if !b.indexOutput {
		seen := make(map[string]int)
		for i := range rows {
			key := sanitizeLabel(rows[i].Label)
			if rows[i].IsHeader || key == "" {
				continue
			}
			if n := seen[key]; n > 0 {
				rows[i].Label = fmt.Sprintf("%s (%d)", key, n+1)
			}
			seen[key]++
		}
	}

	lines := make([]string, 0, len(rows))
	selected, firstSelectable := -1, -1
	for i, r := range rows {
		lines = append(lines, b.formatItem(r))
		if r.IsHeader {
			continue
		}
		if firstSelectable < 0 {
			firstSelectable = i
		}
		if r.IsActive && selected < 0 {
			selected = i
		}
	}
	if selected < 0 {
		selected = firstSelectable
	}
	return strings.Join(lines, "\n"), selected
}

func (b *launcher) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if b.markup {
		display = html.EscapeString(display)
		if item.IsHeader {
			display = "<b>" + display + "</b>"
		}
	}
	if b.kind != kindRofi {
		return display
	}

	// Rofi row properties: one NUL, then key\x1fvalue pairs joined by \x1f.
	var attrs []string
	if item.IsHeader {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(item.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *launcher) parseSelection(selection string, rows []Item) (Item, error) {
	if b.indexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(rows) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return rows[idx], nil
		}
	}
	for _, r := range rows {
		if sanitizeLabel(r.Label) == selection {
			return r, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func runCommand(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("%w: %s", err, msg)
		}
		return string(out), err
	}
	return string(out), nil
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

// isCancelExit reports the exit codes launchers use for "no selection"
// (1) and Ctrl+C (130).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
