package get_slot_map

import (
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	"github.com/nvkhoa/CourtHub-SlotService/internal/integrations/centerservice"
)

// projectGrid строит сетку для конкретного зрителя. Чистая функция своих
// аргументов — без скрытого состояния, тестируется изолированно.
//
// Порядок наложения детерминирован (клиент воспроизводит ту же логику):
//  1. базовые состояния из снимка хранилища холдов
//     (free / held_by_other / held_by_me / booked);
//  2. локальный выбор зрителя как held_by_me — только поверх free:
//     занятые другими ячейки локальный выбор не перекрывает;
//  3. past_locked для уже начавшихся часов сегодняшней даты — поверх
//     всего (display-only, состояние хранилища не меняет).
func projectGrid(
	courts []centerservice.Court,
	holds []*domain.Hold,
	viewerID int64,
	selected []SlotRef,
	date time.Time,
	now time.Time,
) []CourtGrid {
	// Индексируем холды по (корт, час)
	holdByCell := make(map[SlotRef]*domain.Hold, len(holds))
	for _, h := range holds {
		holdByCell[SlotRef{CourtID: h.Key.CourtID, HourIndex: h.Key.HourIndex}] = h
	}

	selectedCells := make(map[SlotRef]struct{}, len(selected))
	for _, ref := range selected {
		selectedCells[ref] = struct{}{}
	}

	grids := make([]CourtGrid, 0, len(courts))
	for _, court := range courts {
		if !court.IsActive {
			continue
		}

		states := make([]domain.DisplayState, domain.GridSize)
		for hourIndex := 0; hourIndex < domain.GridSize; hourIndex++ {
			cell := SlotRef{CourtID: court.ID, HourIndex: hourIndex}
			states[hourIndex] = projectCell(holdByCell[cell], cell, viewerID, selectedCells, date, now)
		}

		grids = append(grids, CourtGrid{
			CourtID:   court.ID,
			CourtName: court.Name,
			States:    states,
		})
	}

	return grids
}

// projectCell вычисляет состояние одной ячейки сетки
func projectCell(
	h *domain.Hold,
	cell SlotRef,
	viewerID int64,
	selectedCells map[SlotRef]struct{},
	date time.Time,
	now time.Time,
) domain.DisplayState {
	// Базовое состояние из снимка
	state := domain.DisplayFree
	if h != nil {
		switch {
		case h.State == domain.HoldBooked:
			state = domain.DisplayBooked
		case h.OwnerID == viewerID && viewerID != 0:
			state = domain.DisplayHeldByMe
		default:
			state = domain.DisplayHeldByOther
		}
	}

	// Локальный выбор зрителя — только поверх свободных ячеек
	if state == domain.DisplayFree {
		if _, ok := selectedCells[cell]; ok && viewerID != 0 {
			state = domain.DisplayHeldByMe
		}
	}

	// Прошедшие часы сегодняшней даты блокируются поверх всего
	if domain.IsPastSlot(date, cell.HourIndex, now) {
		state = domain.DisplayPastLocked
	}

	return state
}
