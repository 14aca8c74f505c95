package views

import "github.com/rivo/tview"

// Picker is a titled list the session flow steps through: folders,
// conversations, time ranges. Items can carry a toggle marker.
type Picker struct {
	*tview.List
	labels []string
	marked map[int]bool
}

// NewPicker creates an empty picker page.
func NewPicker(title string) *Picker {
	l := tview.NewList().ShowSecondaryText(false)
	l.SetBorder(true).SetTitle(" " + title + " ")
	return &Picker{List: l, marked: map[int]bool{}}
}

// SetItems replaces the picker content. All marks are cleared.
func (p *Picker) SetItems(labels []string) {
	p.Clear()
	p.labels = append([]string(nil), labels...)
	p.marked = map[int]bool{}
	for _, label := range labels {
		p.AddItem(label, "", 0, nil)
	}
}

// ToggleMark flips the checkbox marker on one item.
func (p *Picker) ToggleMark(index int) {
	if index < 0 || index >= len(p.labels) {
		return
	}
	p.marked[index] = !p.marked[index]
	p.redraw()
}

// Marked reports whether any item carries a mark.
func (p *Picker) Marked() bool {
	for _, m := range p.marked {
		if m {
			return true
		}
	}
	return false
}

func (p *Picker) redraw() {
	current := p.GetCurrentItem()
	p.Clear()
	for i, label := range p.labels {
		prefix := "( ) "
		if p.marked[i] {
			prefix = "(x) "
		}
		p.AddItem(prefix+label, "", 0, nil)
	}
	p.SetCurrentItem(current)
}
