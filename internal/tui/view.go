package tui

import (
	"fmt"
	"strings"
)

// historyShown is how many recent history entries the view lists.
const historyShown = 5

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("password generator") + "\n\n")
	b.WriteString("  " + m.policyLine() + "\n\n")
	b.WriteString(m.passwordBlock())
	b.WriteString(m.strengthBlock())
	b.WriteString(m.historyBlock())
	b.WriteString(m.tipLine())

	// always reserve a line for flash to prevent layout shift
	if m.flash != "" {
		b.WriteString("  " + okStyle.Render(m.flash) + "\n")
	} else {
		b.WriteString("\n")
	}

	if m.typing {
		b.WriteString("  " + m.help.ShortHelpView(keys.typingHelp()) + "\n")
	} else {
		b.WriteString("  " + m.help.ShortHelpView(keys.browseHelp()) + "\n")
	}
	return b.String()
}

func (m Model) policyLine() string {
	p := m.state.Policy
	return fmt.Sprintf("%s ‹ %d ›   %s %s   %s %s",
		mutedStyle.Render("length"), p.Length,
		mutedStyle.Render("digits"), checkbox(p.IncludeDigits),
		mutedStyle.Render("special"), checkbox(p.IncludeSpecial))
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) passwordBlock() string {
	var s string
	switch {
	case m.generating:
		s = "  " + m.spinner.View() + " generating a secure password...\n"
	case m.typing:
		s = "  " + m.input.View() + "\n"
	case m.state.Password == "":
		s = "  " + mutedStyle.Render("no password yet, press g to generate or tab to type one") + "\n"
	default:
		s = indent(passwordStyle.Render(m.state.Password)) + "\n"
	}

	if g := m.state.Generate; g != nil && g.Celebrate && !m.generating {
		s += "  " + celebrateStyle.Render(fmt.Sprintf("excellent! %d characters, about %.0f bits of entropy", g.Length, g.EntropyBits)) + "\n"
	}
	return s + "\n"
}

func (m Model) strengthBlock() string {
	if m.state.Notice != "" {
		return "  " + warnStyle.Render(m.state.Notice) + "\n\n"
	}

	res := m.state.Strength
	if res == nil {
		return ""
	}

	s := fmt.Sprintf("  %s %s\n", mutedStyle.Render("strength"), scoreStyle(res.Score).Render(res.Label))
	if res.Warning != "" {
		s += "  " + warnStyle.Render(res.Warning) + "\n"
	}
	for _, sg := range res.Suggestions {
		s += "  " + mutedStyle.Render("- "+sg) + "\n"
	}
	return s + "\n"
}

func (m Model) historyBlock() string {
	h := m.state.History
	s := "  " + subtitleStyle.Render(fmt.Sprintf("history (%d)", len(h))) + "\n"
	if len(h) == 0 {
		return s + "  " + mutedStyle.Render("no passwords generated yet") + "\n\n"
	}

	start := max(len(h)-historyShown, 0)
	for i := len(h) - 1; i >= start; i-- {
		s += fmt.Sprintf("  %s %s\n", mutedStyle.Render(fmt.Sprintf("%3d", i+1)), h[i])
	}
	return s + "\n"
}

// tipLine rotates through the tips as the history grows.
func (m Model) tipLine() string {
	if len(m.tips) == 0 {
		return ""
	}
	tip := m.tips[len(m.state.History)%len(m.tips)]
	return "  " + mutedStyle.Render("tip: "+tip.Text) + "\n\n"
}

func indent(block string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
