package catalog

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwantia/tagster/pkg/tagster"
)

var ansi = regexp.MustCompile("\033\\[[0-9;]*m")

func TestPrintTagsAlignsColouredNames(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() {
		color.NoColor = noColor
	})

	var buf bytes.Buffer
	require.NoError(t, printTags(&buf, []tagster.Tag{
		{ID: 1, Name: "plain"},
		{ID: 2, Name: "urgent", Colour: "red"},
		{ID: 3, Name: "later", Colour: "Blue"},
	}))

	out := buf.String()
	assert.Contains(t, out, "\033[")

	lines := strings.Split(strings.TrimSpace(ansi.ReplaceAllString(out, "")), "\n")
	require.Len(t, lines, 4)

	column := strings.Index(lines[0], "NAME")
	assert.Equal(t, column, strings.Index(lines[1], "plain"))
	assert.Equal(t, column, strings.Index(lines[2], "urgent"))
	assert.Equal(t, column, strings.Index(lines[3], "later"))
}
