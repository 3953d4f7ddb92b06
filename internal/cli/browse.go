package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spaceforge/pkg/geom"
	"github.com/matzehuels/spaceforge/pkg/pipeline"
	"github.com/matzehuels/spaceforge/pkg/store"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// LayoutListModel is the bubbletea model for picking a stored layout.
type LayoutListModel struct {
	Layouts  []store.Summary
	Cursor   int
	Selected *store.Summary
	Height   int
	Offset   int
}

func NewLayoutListModel(layouts []store.Summary) LayoutListModel {
	return LayoutListModel{Layouts: layouts, Height: 15}
}

func (m LayoutListModel) Init() tea.Cmd {
	return nil
}

func (m LayoutListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layouts)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Layouts) == 0 {
				return m, nil
			}
			sel := m.Layouts[m.Cursor]
			m.Selected = &sel
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m LayoutListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ analyze  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Layouts))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		l := m.Layouts[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, l.Name, strconv.Itoa(l.ShapeCount), formatRelativeTime(l.UpdatedAt)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Shapes", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Layouts))))

	return b.String()
}

func (c *CLI) browseCommand() *cobra.Command {
	var shapes bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a stored layout interactively and analyze it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, cfg, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo(c.out, "No stored layouts")
				printDetail(c.out, "Save one with: spaceforge layouts save <file>")
				return nil
			}

			final, err := tea.NewProgram(NewLayoutListModel(list), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			sel := final.(LayoutListModel).Selected
			if sel == nil {
				return nil
			}

			rec, err := st.Get(ctx, sel.ID)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer runner.Close()
			m, err := runner.Analyze(ctx, rec.Layout, pipeline.Options{})
			if err != nil {
				return err
			}
			c.printAnalysis(rec.Name, rec.Layout, m, false, shapes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&shapes, "shapes", false, "print a per-shape table")
	return cmd
}

func (c *CLI) printAnalysis(name string, l *geom.Layout, m geom.Metrics, cached, shapes bool) {
	fmt.Fprintln(c.out, StyleTitle.Render(name))
	printStats(c.out, m.ShapeCount, len(m.Clashes), cached)
	fmt.Fprintln(c.out)
	printMetrics(c.out, m)
	if shapes && l.Len() > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, shapeTable(l, m))
	}
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
