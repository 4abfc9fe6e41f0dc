package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/marsview/internal/listings"
	"github.com/five82/marsview/internal/state"
)

const (
	headerLines = 2
	footerLines = 1
)

func (m Model) contentHeight() int {
	return max(m.height-headerLines-footerLines, 1)
}

// renderMain renders header, content, and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	switch m.currentView {
	case ViewDetail:
		b.WriteString(m.detailViewport.View())
	default:
		b.WriteString(m.renderList())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	parts := []string{styles.Logo.Render("marsview")}
	for _, f := range listings.Filters() {
		label := f.Label()
		if f == m.snapshot.Filter || (m.snapshot.Filter == "" && f == listings.FilterAll) {
			parts = append(parts, styles.Selected.Bold(true).Padding(0, 1).Render(label))
		} else {
			parts = append(parts, styles.MutedText.Padding(0, 1).Render(label))
		}
	}
	parts = append(parts, styles.StatusBadge(m.snapshot.Status))

	if m.snapshot.IsOffline() {
		parts = append(parts, styles.DangerText.Render(fmt.Sprintf("offline (%d failures)", m.snapshot.ConsecutiveFailures)))
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+humanize.Time(m.snapshot.LastUpdated)))
	}

	line := strings.Join(parts, " ")
	rule := styles.FaintText.Render(strings.Repeat("─", max(m.width, 1)))
	return styles.Header.Width(m.width).Render(line) + "\n" + rule
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderList renders the body of the list view for the current status.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	label := m.snapshot.Filter.Label()

	switch m.snapshot.Status {
	case state.StatusIdle:
		return styles.MutedText.Render("No listings requested yet. Press a, r, or b.")

	case state.StatusLoading:
		return m.spinner.View() + " " + styles.Text.Render(fmt.Sprintf("Loading %s listings...", label))

	case state.StatusError:
		var b strings.Builder
		b.WriteString(styles.DangerText.Render("Unable to load listings."))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(errorCause(m.snapshot.LastError)))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Press R to retry."))
		return b.String()
	}

	props := m.snapshot.Properties
	if len(props) == 0 {
		return styles.MutedText.Render(fmt.Sprintf("No %s listings.", strings.ToLower(label)))
	}

	height := m.contentHeight()
	start := 0
	if m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := min(start+height, len(props))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderRow(props[i], i == m.selectedRow))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(p listings.Property, selected bool) string {
	styles := m.theme.Styles()
	id := lipgloss.NewStyle().Width(10).Render(p.ID)
	badge := lipgloss.NewStyle().Width(7).Render(styles.TypeBadge(p.Type))
	price := lipgloss.NewStyle().Width(16).Align(lipgloss.Right).Render(p.DisplayPrice())
	row := lipgloss.JoinHorizontal(lipgloss.Top, id, " ", badge, " ", price)
	if selected {
		return styles.Selected.Render("> " + row)
	}
	return "  " + row
}

func errorCause(err error) string {
	if err == nil {
		return "unknown error"
	}
	switch listings.Kind(err) {
	case "network":
		return "Network error: " + err.Error()
	case "decode":
		return "Unexpected response: " + err.Error()
	default:
		return err.Error()
	}
}

func (m *Model) updateDetailViewport() {
	if !m.ready || m.currentView != ViewDetail {
		return
	}
	m.detailViewport.SetContent(m.renderDetail())
	m.detailViewport.GotoTop()
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	p := m.detail

	offer := "For sale"
	if p.IsRental() {
		offer = "For rent"
	}

	field := func(name, value string) string {
		return styles.MutedText.Width(8).Render(name) + " " + styles.Text.Render(value)
	}
	body := strings.Join([]string{
		styles.AccentText.Bold(true).Render("Listing "+p.ID) + "  " + styles.TypeBadge(p.Type),
		"",
		field("Offer", offer),
		field("Price", p.DisplayPrice()),
		field("Image", p.ImgSrcURL),
		"",
		styles.FaintText.Render("esc to return"),
	}, "\n")
	return styles.Panel.Width(max(m.width-2, 20)).Render(body)
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Theme: " + m.theme.Name + "  ·  press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styles.Panel.Render(b.String()))
}
