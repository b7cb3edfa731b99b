package palette

import (
	"errors"
	"strings"
	"testing"
)

func stubRun(b *launcher, out string, err error) *[]string {
	var gotArgs []string
	b.run = func(name string, args []string, stdin string) (string, error) {
		gotArgs = append([]string{name}, args...)
		return out, err
	}
	return &gotArgs
}

func TestRofiFormatItem_UsesSingleNullSeparator(t *testing.T) {
	b := newRofi()

	out := b.formatItem(Item{
		Label:    "Header",
		IsHeader: true,
		Icon:     "folder",
		Meta:     "meta",
	})

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	if !strings.HasPrefix(out, "<b>Header</b>\x00nonselectable\x1ftrue") {
		t.Fatalf("expected bold nonselectable header, got %q", out)
	}
	if !strings.Contains(out, "icon\x1ffolder") || !strings.Contains(out, "meta\x1fmeta") {
		t.Fatalf("expected icon/meta attributes, got %q", out)
	}
}

func TestRofiFormatItem_EscapesMarkup(t *testing.T) {
	b := newRofi()
	out := b.formatItem(Item{Label: "a <b> & c\nd"})
	if out != "a &lt;b&gt; &amp; c d" {
		t.Fatalf("got %q", out)
	}
}

func TestRofiBuildArgs_PreselectsActiveRow(t *testing.T) {
	b := newRofi()
	rows := []Item{
		{Label: "head", IsHeader: true},
		{Label: "a"},
		{Label: "b", IsActive: true},
	}
	_, selected := b.formatInput(rows)
	args := b.buildArgs("resize", "msg", rows, selected)

	for _, want := range [][]string{{"-format", "i"}, {"-a", "2"}, {"-selected-row", "2"}, {"-mesg", "msg"}, {"-p", "resize"}} {
		if !containsArgs(args, want[0], want[1]) {
			t.Fatalf("expected %v in args, got %v", want, args)
		}
	}
	if !containsArg(args, "-no-custom") {
		t.Fatalf("expected -no-custom in args, got %v", args)
	}
}

func TestFormatInput_SelectsFirstSelectableWithoutActive(t *testing.T) {
	b := newFuzzel()
	_, selected := b.formatInput([]Item{{Label: "head", IsHeader: true}, {Label: "a"}})
	if selected != 1 {
		t.Fatalf("selected = %d, want 1", selected)
	}
}

func TestDmenuFormatInput_DisambiguatesLabels(t *testing.T) {
	b := newDmenu()
	rows := []Item{{Label: "term"}, {Label: "term"}, {Label: "term"}}
	input, _ := b.formatInput(rows)
	if input != "term\nterm (2)\nterm (3)" {
		t.Fatalf("got %q", input)
	}
	got, err := b.parseSelection("term (2)", rows)
	if err != nil {
		t.Fatalf("parseSelection: %v", err)
	}
	if got.Label != "term (2)" {
		t.Fatalf("got %+v", got)
	}
}

func TestShow_ParsesIndexSelection(t *testing.T) {
	b := newRofi()
	args := stubRun(b, "1\n", nil)

	got, err := b.Show("p", []Item{{Label: "a", Value: "A"}, {Label: "b", Value: "B"}}, "")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got.Value != "B" {
		t.Fatalf("got %+v", got)
	}
	if (*args)[0] != "rofi" {
		t.Fatalf("ran %v", *args)
	}
}

func TestShow_EmptySelectionIsCancel(t *testing.T) {
	b := newWofi()
	stubRun(b, "", nil)
	if _, err := b.Show("p", []Item{{Label: "a"}}, ""); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestShow_HeaderSelectionIsCancel(t *testing.T) {
	b := newFuzzel()
	stubRun(b, "0", nil)
	if _, err := b.Show("p", []Item{{Label: "h", IsHeader: true}, {Label: "a"}}, ""); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestShow_CommandFailure(t *testing.T) {
	b := newDmenu()
	stubRun(b, "", errors.New("boom"))
	_, err := b.Show("p", []Item{{Label: "a"}}, "")
	if err == nil || errors.Is(err, ErrCancelled) || !strings.Contains(err.Error(), "dmenu failed") {
		t.Fatalf("expected command failure, got %v", err)
	}
}

func TestShow_IndexOutOfRange(t *testing.T) {
	b := newRofi()
	stubRun(b, "7", nil)
	if _, err := b.Show("p", []Item{{Label: "a"}}, ""); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestNewBackend(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) {
		if name == "wofi" || name == "dmenu" {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	name, err := DetectBackend()
	if err != nil || name != "wofi" {
		t.Fatalf("DetectBackend = %q, %v", name, err)
	}
	b, err := NewBackend("auto")
	if err != nil {
		t.Fatalf("NewBackend(auto): %v", err)
	}
	if l := b.(*launcher); l.command != "wofi" {
		t.Fatalf("auto picked %q", l.command)
	}
	if _, err := NewBackend("rofi"); err == nil {
		t.Fatalf("expected missing rofi error")
	}
	if _, err := NewBackend("albert"); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, key, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == key && args[i+1] == value {
			return true
		}
	}
	return false
}
