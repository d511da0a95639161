package auditlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/n0l0g0/pos-frontend/internal/api"
)

// Lister is the slice of the remote API the audit screen reads from.
type Lister interface {
	ListAuditEntries(ctx context.Context) ([]api.AuditEntry, error)
}

// Fetch loads the audit trail sorted newest first.
func Fetch(ctx context.Context, lister Lister) ([]api.AuditEntry, error) {
	entries, err := lister.ListAuditEntries(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// FilterByDate keeps entries whose UTC calendar date matches the given
// yyyy-mm-dd string. An empty date keeps everything.
func FilterByDate(entries []api.AuditEntry, date string) []api.AuditEntry {
	date = strings.TrimSpace(date)
	if date == "" {
		return entries
	}
	var out []api.AuditEntry
	for _, e := range entries {
		if e.CreatedAt.UTC().Format("2006-01-02") == date {
			out = append(out, e)
		}
	}
	return out
}

// RenderDetails formats the before/after payloads for one entry. Creates
// show the new record, deletes the removed one, updates both.
func RenderDetails(entry api.AuditEntry) string {
	switch entry.Action {
	case api.AuditActionCreate:
		return indented(entry.DataAfter)
	case api.AuditActionDelete:
		return indented(entry.DataBefore)
	case api.AuditActionUpdate:
		return fmt.Sprintf("Before:\n%s\nAfter:\n%s", indented(entry.DataBefore), indented(entry.DataAfter))
	}
	return ""
}

func indented(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "(none)"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
