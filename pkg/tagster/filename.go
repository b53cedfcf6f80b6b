package tagster

import (
	"strings"

	"github.com/samber/lo"
)

// Name is a file base name split into its tag-encoding parts.
//
// The base is the text before the first period and the extension the text after
// the last one. Everything in between is the tag block, split on the delimiter:
//
//	report.txt              -> base "report", no block, ext "txt"
//	report.Finance&Q1.txt   -> base "report", block [Finance Q1], ext "txt"
//	Makefile                -> base "Makefile", no block, no ext
//	Makefile.build.         -> base "Makefile", block [build], no ext
//	notes.                  -> base "notes", no block, empty ext
//	notes.draft..           -> base "notes", block [draft], empty ext
//
// Block keeps the entries exactly as written, empty and repeated ones included,
// so Format(ParseName(name)) always returns name.
type Name struct {
	Base   string
	Block  []string
	Ext    string
	HasExt bool
}

// ParseName splits a base name using the given tag delimiter
func ParseName(name, delimiter string) Name {
	parts := strings.Split(name, ".")
	n := len(parts)

	switch n {
	case 1:
		return Name{Base: name}
	case 2:
		return Name{Base: parts[0], Ext: parts[1], HasExt: true}
	}

	ext := parts[n-1]
	switch {
	case ext != "":
		return Name{
			Base:   parts[0],
			Block:  strings.Split(strings.Join(parts[1:n-1], "."), delimiter),
			Ext:    ext,
			HasExt: true,
		}
	case n > 3 && parts[n-2] == "":
		// Tagged name whose extension is empty, written with a doubled trailing period
		return Name{
			Base:   parts[0],
			Block:  strings.Split(strings.Join(parts[1:n-2], "."), delimiter),
			HasExt: true,
		}
	default:
		return Name{
			Base:  parts[0],
			Block: strings.Split(strings.Join(parts[1:n-1], "."), delimiter),
		}
	}
}

// Format joins the parts back into a base name
func (n Name) Format(delimiter string) string {
	var sb strings.Builder
	sb.WriteString(n.Base)

	if len(n.Block) > 0 {
		sb.WriteString(".")
		sb.WriteString(strings.Join(n.Block, delimiter))
		sb.WriteString(".")
		if n.HasExt {
			if n.Ext == "" {
				sb.WriteString(".")
			}
			sb.WriteString(n.Ext)
		}
	} else if n.HasExt {
		sb.WriteString(".")
		sb.WriteString(n.Ext)
	}

	return sb.String()
}

// Tags returns the distinct non-empty entries of the tag block
func (n Name) Tags() []string {
	return lo.Uniq(lo.Filter(n.Block, func(tag string, _ int) bool {
		return tag != ""
	}))
}

// WithTag appends tag to the tag block unless it is already embedded
func (n Name) WithTag(tag string) Name {
	if lo.Contains(n.Block, tag) {
		return n
	}

	block := make([]string, 0, len(n.Block)+1)
	block = append(block, n.Block...)
	n.Block = append(block, tag)
	return n
}

// WithoutTag removes every occurrence of tag from the tag block.
// A block left with no entries at all is dropped from the name.
func (n Name) WithoutTag(tag string) Name {
	n.Block = lo.Without(n.Block, tag)
	return n
}

// RenameTag replaces old with name, keeping its position
func (n Name) RenameTag(old, name string) Name {
	if !lo.Contains(n.Block, old) {
		return n
	}
	if lo.Contains(n.Block, name) {
		return n.WithoutTag(old)
	}

	n.Block = lo.Map(n.Block, func(tag string, _ int) string {
		if tag == old {
			return name
		}
		return tag
	})
	return n
}
