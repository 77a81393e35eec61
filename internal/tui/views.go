package tui

import (
	"fmt"
	"strings"

	"github.com/WendelRafael/todo-go/internal/filter"
)

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.viewAuth("Sign in", "enter: sign in · ctrl+n: create account · ctrl+c: quit")
	case screenRegister:
		return m.viewAuth("Create account", "enter: register · esc: back to sign in · ctrl+c: quit")
	case screenForm:
		return m.viewForm()
	default:
		return m.viewList()
	}
}

func (m Model) viewAuth(title, help string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n")
	if m.loading {
		b.WriteString("\n" + m.spin.View() + " contacting server...")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	b.WriteString("\n" + helpStyle.Render(help))
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("My tasks"))
	b.WriteString("\n")

	// filter bar
	parts := make([]string, 0, 3)
	for i, s := range []filter.Status{filter.All, filter.Pending, filter.Completed} {
		label := fmt.Sprintf("%d:%s", i+1, s)
		if m.status == s {
			parts = append(parts, filterOnStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, filterOffStyle.Render(" "+label+" "))
		}
	}
	b.WriteString(strings.Join(parts, " "))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.dateSearch.View())
	b.WriteString("\n\n")

	if m.stale {
		b.WriteString(staleStyle.Render("showing cached tasks, refreshing..."))
		b.WriteString("\n")
	}
	if m.loading {
		b.WriteString(m.spin.View() + " loading...\n")
	}

	vis := m.visible()
	if len(vis) == 0 && !m.loading {
		b.WriteString(descStyle.Render("no tasks match"))
		b.WriteString("\n")
	}
	for i, t := range vis {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, box, t.Title)
		if t.Date != "" {
			line += "  " + t.Date
		}
		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case t.Completed:
			line = doneStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		if i == m.cursor && t.Description != "" {
			b.WriteString(descStyle.Render("      " + t.Description))
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	b.WriteString("\n" + helpStyle.Render(
		"space: toggle · a: add · e: edit · d: delete · y: copy · /: search · .: date · 1/2/3: filter · r: refresh · L: logout · q: quit"))
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	if m.editID == 0 {
		b.WriteString(titleStyle.Render("New task"))
	} else {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Edit task #%d", m.editID)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.titleIn.View())
	b.WriteString("\n")
	b.WriteString(m.descIn.View())
	b.WriteString("\n")
	b.WriteString(m.dateIn.View())
	b.WriteString("\n")
	if m.loading {
		b.WriteString("\n" + m.spin.View() + " saving...")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	b.WriteString("\n" + helpStyle.Render("enter/ctrl+s: save · tab: next field · esc: cancel"))
	return b.String()
}
