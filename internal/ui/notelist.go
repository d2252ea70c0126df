package ui

import (
	"fmt"
	"strings"

	"github.com/aretw0/notehub/pkg/core"
)

const (
	EmptyText        = "No notes found."
	ErrorText        = "Error loading notes."
	LoadingText      = "Loading notes..."
	DeleteAction     = "[Delete]"
	DeletingAction   = "[Deleting…]"
	minContentLength = 10
	maxPageLinks     = 7
)

// RenderNoteList renders one row per note. Rows whose id is in deleting show
// a disabled delete control. Zero notes render EmptyText.
func RenderNoteList(notes []core.Note, deleting map[core.NoteID]bool, cursor, width int, st Styles) string {
	if len(notes) == 0 {
		return st.Status.Render(EmptyText)
	}

	var sb strings.Builder
	for i, n := range notes {
		row := renderNoteRow(n, deleting[n.ID], width, st)
		if i == cursor {
			sb.WriteString(st.Selected.Render(row))
		} else {
			sb.WriteString(st.Row.Render(row))
		}
		if i < len(notes)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func renderNoteRow(n core.Note, deleting bool, width int, st Styles) string {
	action := st.Action.Render(DeleteAction)
	if deleting {
		action = st.Disabled.Render(DeletingAction)
	}

	title := st.Title.Render(n.Title)
	tag := st.Tag.Render(string(n.Tag))
	line := fmt.Sprintf("%s  %s  %s", title, tag, action)

	content := strings.ReplaceAll(n.Content, "\n", " ")
	if content == "" {
		return line
	}
	limit := width - 4
	if limit < minContentLength {
		limit = minContentLength
	}
	return line + "\n" + st.Content.Render(truncate(content, limit))
}

// RenderPagination renders page numbers with the current page highlighted.
// It returns "" when there is at most one page.
func RenderPagination(page, totalPages int, st Styles) string {
	if totalPages <= 1 {
		return ""
	}

	var parts []string
	if page > 1 {
		parts = append(parts, "←")
	}
	first, last := pageWindow(page, totalPages)
	for p := first; p <= last; p++ {
		label := fmt.Sprintf("%d", p)
		if p == page {
			parts = append(parts, st.ActivePage.Render("["+label+"]"))
		} else {
			parts = append(parts, label)
		}
	}
	if page < totalPages {
		parts = append(parts, "→")
	}
	return strings.Join(parts, " ")
}

// pageWindow returns at most maxPageLinks page numbers centred on page.
func pageWindow(page, totalPages int) (int, int) {
	first := page - maxPageLinks/2
	if first < 1 {
		first = 1
	}
	last := first + maxPageLinks - 1
	if last > totalPages {
		last = totalPages
		first = last - maxPageLinks + 1
		if first < 1 {
			first = 1
		}
	}
	return first, last
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
