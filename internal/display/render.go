package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipebook/internal/directions"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
)

// RenderRecipe formats a recipe for the terminal. With a session the
// steps show their checkboxes and cursor marks the selected step; without
// one every step is unchecked and no step is selected.
func RenderRecipe(r *domain.Recipe, session *domain.Session, cursor, width int) string {
	if width <= 0 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width - 6)

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Name))
	b.WriteByte('\n')
	if r.Time != "" {
		b.WriteString(secondaryStyle.Render("  " + r.Time))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(headerStyle.Render("Ingredients"))
	b.WriteByte('\n')
	for _, ing := range r.Ingredients {
		line := ingredient.Format(ing)
		if line == "" {
			continue
		}
		b.WriteString("  • ")
		b.WriteString(primaryStyle.Render(line))
		b.WriteByte('\n')
	}

	steps := directions.Steps(r.Directions)
	var states []domain.StepState
	if session != nil {
		steps = session.Steps
		states = session.StepStates
	}

	b.WriteByte('\n')
	header := "Directions"
	if session != nil {
		header = fmt.Sprintf("Directions  %d/%d", session.Done(), len(steps))
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteByte('\n')
	if len(steps) == 0 {
		b.WriteString(secondaryStyle.Render("  (no directions)"))
		b.WriteByte('\n')
	}
	for i, step := range steps {
		done := i < len(states) && states[i].Status == domain.StepDone
		box := "[ ]"
		style := primaryStyle
		if done {
			box = "[x]"
			style = doneStyle
		}
		mark := "  "
		if i == cursor {
			mark = cursorStyle.Render("> ")
		}
		text := wrapLines(wrap, step)
		b.WriteString(mark + box + " " + style.Render(text))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderMatches formats search results, one per line. In at-most mode the
// matched quantity is shown next to the name.
func RenderMatches(matches []domain.Match, cursor int, atMost bool) string {
	if len(matches) == 0 {
		return secondaryStyle.Render("  no recipes match") + "\n"
	}

	var b strings.Builder
	for i, m := range matches {
		mark := "  "
		name := primaryStyle.Render(m.Recipe.Name)
		if i == cursor {
			mark = cursorStyle.Render("> ")
			name = selectedStyle.Render(m.Recipe.Name)
		}
		b.WriteString(mark + name)
		if atMost && m.Quantity >= 0 {
			b.WriteString(secondaryStyle.Render(fmt.Sprintf("  (%s)", formatQuantity(m.Quantity))))
		}
		if m.Recipe.Time != "" {
			b.WriteString(secondaryStyle.Render("  · " + m.Recipe.Time))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatQuantity(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// wrapLines word-wraps s to the style's width and indents continuation
// lines under the checkbox.
func wrapLines(style lipgloss.Style, s string) string {
	lines := strings.Split(style.Render(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n      ")
}
