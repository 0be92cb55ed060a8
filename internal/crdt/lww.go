package crdt

import (
	"maps"
	"slices"
	"time"

	"github.com/iudanet/dequeuesync/internal/models"
)

// Outcome результат слияния одного регистра.
type Outcome int

const (
	// Inserted регистра не было, записано входящее значение.
	Inserted Outcome = iota
	// Overwrote входящее значение строго новее и заменило локальное.
	Overwrote
	// Kept входящее значение старше или равно по времени; локальное сохранено.
	Kept
	// Duplicate регистр уже записан этим же событием.
	Duplicate
)

// Changed reports whether the merge modified the register.
func (o Outcome) Changed() bool {
	return o == Inserted || o == Overwrote
}

// Merge применяет правило Last-Write-Wins к одному регистру.
//
// Побеждает строго больший timestamp. При равных timestamps сохраняется
// локальное значение: это явное соглашение, идентификатор устройства
// в сравнении не участвует. Повторное применение того же события ничего не меняет.
func Merge(existing models.Register, exists bool, incoming models.Register) (models.Register, Outcome) {
	if !exists {
		return incoming, Inserted
	}
	if existing.EventID != "" && existing.EventID == incoming.EventID {
		return existing, Duplicate
	}
	if incoming.UpdatedAt.After(existing.UpdatedAt) {
		return incoming, Overwrote
	}
	return existing, Kept
}

// MergeResult сводка слияния фрагмента в состояние сущности.
type MergeResult struct {
	Won       []string  // поля, где победило входящее значение
	Lost      []string  // поля, где сохранено локальное значение
	Duplicate int       // поля, уже записанные этим событием
	LocalMax  time.Time // максимальный timestamp среди сохраненных локальных регистров
}

// Changed reports whether any register was written.
func (r MergeResult) Changed() bool {
	return len(r.Won) > 0
}

// MergeFields сливает набор регистров в state.Fields и поддерживает UpdatedAt.
// Порядок применения событий не влияет на итоговое состояние (кроме равных
// timestamps разных событий, где действует правило "оставить локальное").
func MergeFields(state *models.EntityState, incoming map[string]models.Register) MergeResult {
	var res MergeResult

	for _, name := range slices.Sorted(maps.Keys(incoming)) {
		reg := incoming[name]
		existing, ok := state.Fields[name]

		merged, outcome := Merge(existing, ok, reg)
		switch outcome {
		case Inserted, Overwrote:
			state.Fields[name] = merged
			res.Won = append(res.Won, name)
			if merged.UpdatedAt.After(state.UpdatedAt) {
				state.UpdatedAt = merged.UpdatedAt
			}
		case Kept:
			res.Lost = append(res.Lost, name)
			if existing.UpdatedAt.After(res.LocalMax) {
				res.LocalMax = existing.UpdatedAt
			}
		case Duplicate:
			res.Duplicate++
		}
	}

	return res
}
