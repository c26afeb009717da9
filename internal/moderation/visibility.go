package moderation

import (
	"strings"

	"gorm.io/gorm"
)

// Visible reports whether c may see item. Admins see everything; everyone
// else sees approved items, plus their own pending ones when includeOwnPending
// is set.
func Visible(c Caller, item Moderated, includeOwnPending bool) bool {
	if c.IsAdmin() {
		return true
	}
	if item.ModerationStatus() == StatusApproved {
		return true
	}
	if includeOwnPending && c.Authenticated() {
		if owner, ok := item.SubmittedBy(); ok && owner == c.UserID {
			return true
		}
	}
	return false
}

// Filter keeps the visible items, preserving order.
func Filter[T Moderated](c Caller, items []T, includeOwnPending bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Visible(c, item, includeOwnPending) {
			out = append(out, item)
		}
	}
	return out
}

// Scope is the SQL form of Visible. ownerColumn may be empty for tables
// without an owner.
func Scope(c Caller, table, ownerColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if c.IsAdmin() {
			return db
		}
		statusCol := column(table, "status")
		if ownerColumn != "" && c.Authenticated() {
			return db.Where("("+statusCol+" = ? OR "+column(table, ownerColumn)+" = ?)", StatusApproved, c.UserID)
		}
		return db.Where(statusCol+" = ?", StatusApproved)
	}
}

// Tab is an admin partition of a moderated list.
type Tab string

const (
	TabAll      Tab = "all"
	TabPending  Tab = "pending"
	TabApproved Tab = "approved"
)

func ParseTab(s string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabPending:
		return TabPending
	case TabApproved:
		return TabApproved
	}
	return TabAll
}

func Partition[T Moderated](items []T, tab Tab) []T {
	if tab == TabAll {
		return items
	}
	want := Status(tab)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.ModerationStatus() == want {
			out = append(out, item)
		}
	}
	return out
}

// TabScope restricts a query to one admin partition.
func TabScope(table string, tab Tab) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tab == TabAll {
			return db
		}
		return db.Where(column(table, "status")+" = ?", Status(tab))
	}
}

// MatchesText is a case-insensitive substring match against any of fields.
// An empty term matches everything.
func MatchesText(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func column(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}
