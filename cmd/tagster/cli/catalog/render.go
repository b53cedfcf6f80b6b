package catalog

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"github.com/mwantia/tagster/pkg/tagster"
)

var colours = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
}

// paint renders the tag name in its colour, unknown colours print plain
func paint(tag tagster.Tag) string {
	attr, ok := colours[strings.ToLower(tag.Colour)]
	if !ok {
		return tag.Name
	}
	return color.New(attr).Sprint(tag.Name)
}

func printTags(out io.Writer, tags []tagster.Tag) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLOUR\tNAME")
	for _, tag := range tags {
		// Painted text stays in the last column so escape codes never widen a cell
		fmt.Fprintf(w, "%d\t%s\t%s\n", tag.ID, lo.Ternary(tag.Colour == "", "-", tag.Colour), paint(tag))
	}
	return w.Flush()
}

func printFiles(out io.Writer, files []tagster.File) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATH\tTAGS")
	for _, file := range files {
		fmt.Fprintf(w, "%d\t%s\t%s\n", file.ID, file.Path, joinTags(file.Tags))
	}
	return w.Flush()
}

func printFile(out io.Writer, file *tagster.File) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", file.ID)
	fmt.Fprintf(w, "Path:\t%s\n", file.Path)
	fmt.Fprintf(w, "Tags:\t%s\n", joinTags(file.Tags))
	fmt.Fprintf(w, "Registered:\t%s\n", file.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Created:\t%s\n", formatTime(file.Created))
	fmt.Fprintf(w, "Modified:\t%s\n", formatTime(file.Modified))
	return w.Flush()
}

func joinTags(tags []tagster.Tag) string {
	return strings.Join(lo.Map(tags, func(tag tagster.Tag, _ int) string {
		return paint(tag)
	}), ", ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
