package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/iudanet/dequeuesync/internal/models"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func parseKind(s string) (models.EntityKind, error) {
	kind := models.EntityKind(s)
	if err := kind.Validate(); err != nil {
		return "", err
	}
	return kind, nil
}

// parseParent разбирает "type:id"
func parseParent(s string) (*models.ParentRef, error) {
	if s == "" {
		return nil, nil
	}
	typ, id, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("parent must look like type:id, got %q", s)
	}
	ref := models.ParentRef{Type: models.ParentType(typ), ID: id}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return &ref, nil
}

// parseFields разбирает key=value. Значение, которое является JSON, хранится
// как есть, иначе как строка.
func parseFields(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("field must look like key=value, got %q", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			fields[key] = decoded
			continue
		}
		fields[key] = value
	}
	return fields, nil
}

func (a *App) printEntity(state *models.EntityState) {
	a.io.Printf("%s %s\n", state.Kind, state.ID)
	a.io.Printf("  created: %s  updated: %s  sync: %s\n",
		formatTime(state.CreatedAt), formatTime(state.UpdatedAt), state.SyncState)
	for _, name := range slices.Sorted(maps.Keys(state.Fields)) {
		a.io.Printf("  %s = %s\n", name, string(state.Fields[name].Value))
	}
}

func (a *App) printEntityLine(state *models.EntityState) {
	title := cmp.Or(state.String("title"), state.String("name"), state.String("filename"))
	var marks []string
	if state.IsActive() {
		marks = append(marks, "active")
	}
	if status := state.String(models.FieldStatus); status != "" {
		marks = append(marks, status)
	}
	if state.SyncState == models.SyncStatePending {
		marks = append(marks, "pending")
	}
	line := state.ID + "  " + title
	if len(marks) > 0 {
		line += "  [" + strings.Join(marks, ", ") + "]"
	}
	a.io.Println(line)
}

