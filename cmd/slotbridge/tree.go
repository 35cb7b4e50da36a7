package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/scene"
)

var (
	slotStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#98FB98"))
	handleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	compStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	fieldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DDA0DD"))
)

func newTreeCmd(a *app) *cobra.Command {
	var (
		depth  int
		plain  bool
		fields bool
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the slot tree of a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			world, err := a.loadScene()
			if err != nil {
				return err
			}
			defer world.Close()

			r := treeRenderer{
				world:  world,
				depth:  depth,
				fields: fields,
				styled: !plain && term.IsTerminal(int(os.Stdout.Fd())),
			}
			fmt.Fprint(cmd.OutOrStdout(), r.render(world.RootSlot()))
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", -1, "maximum depth to print (-1 = whole tree)")
	cmd.Flags().BoolVar(&plain, "plain", false, "never style output")
	cmd.Flags().BoolVar(&fields, "fields", true, "print component field values")
	return cmd
}

// treeRenderer prints a slot subtree with box-drawing connectors.
type treeRenderer struct {
	world  *scene.World
	depth  int
	fields bool
	styled bool
}

func (r *treeRenderer) paint(style lipgloss.Style, s string) string {
	if !r.styled {
		return s
	}
	return style.Render(s)
}

func (r *treeRenderer) render(h handle.Handle) string {
	var b strings.Builder
	b.WriteString(r.slotLabel(h))
	b.WriteByte('\n')
	r.slot(&b, h, "", 0)
	return b.String()
}

// slotLabel renders "Name 0x... [tag] *root @user".
func (r *treeRenderer) slotLabel(h handle.Handle) string {
	name, err := r.world.SlotName(h)
	if err != nil {
		return r.paint(handleStyle, "<invalid "+h.String()+">")
	}
	parts := []string{r.paint(slotStyle, name), r.paint(handleStyle, h.String())}
	if tag, _ := r.world.SlotTag(h); tag != "" {
		parts = append(parts, r.paint(tagStyle, "["+tag+"]"))
	}
	if root, _ := r.world.IsObjectRoot(h); root {
		parts = append(parts, r.paint(tagStyle, "*root"))
	}
	if user := r.attachedUser(h); user != "" {
		parts = append(parts, r.paint(tagStyle, "@"+user))
	}
	return strings.Join(parts, " ")
}

// attachedUser returns the user whose root is attached to h itself.
func (r *treeRenderer) attachedUser(h handle.Handle) string {
	ur, err := r.world.SlotActiveUserRoot(h)
	if err != nil || ur.IsNull() {
		return ""
	}
	if at, err := r.world.UserRootSlot(ur); err != nil || at != h {
		return ""
	}
	u, err := r.world.SlotActiveUser(h)
	if err != nil {
		return ""
	}
	name, _ := r.world.UserName(u)
	return name
}

func (r *treeRenderer) componentLabel(h handle.Handle) string {
	typeName, err := r.world.ComponentTypeName(h)
	if err != nil {
		return r.paint(handleStyle, "<invalid "+h.String()+">")
	}
	label := "◆ " + r.paint(compStyle, typeName) + " " + r.paint(handleStyle, h.String())
	if !r.fields {
		return label
	}
	names, _ := r.world.FieldNames(h)
	if len(names) == 0 {
		return label
	}
	vals := make([]string, 0, len(names))
	for _, n := range names {
		v, err := r.world.FieldValue(h, n)
		if err != nil {
			continue
		}
		vals = append(vals, n+"="+r.paint(fieldStyle, fmt.Sprint(v)))
	}
	return label + " {" + strings.Join(vals, ", ") + "}"
}

func (r *treeRenderer) slot(b *strings.Builder, h handle.Handle, prefix string, level int) {
	comps, _ := r.world.SlotComponents(h)
	children, _ := r.world.SlotChildren(h)

	truncated := r.depth >= 0 && level >= r.depth && len(children) > 0
	items := len(comps) + len(children)
	if truncated {
		items = len(comps) + 1
	}

	n := 0
	connector := func() (string, string) {
		n++
		if n == items {
			return "└── ", "    "
		}
		return "├── ", "│   "
	}

	for _, c := range comps {
		conn, _ := connector()
		b.WriteString(prefix + conn + r.componentLabel(c) + "\n")
	}
	if truncated {
		conn, _ := connector()
		fmt.Fprintf(b, "%s%s… %d more\n", prefix, conn, len(children))
		return
	}
	for _, c := range children {
		conn, indent := connector()
		b.WriteString(prefix + conn + r.slotLabel(c) + "\n")
		r.slot(b, c, prefix+indent, level+1)
	}
}
