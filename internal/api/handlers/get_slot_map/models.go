package get_slot_map

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	getSlotMap "github.com/nvkhoa/CourtHub-SlotService/internal/usecase/get_slot_map"
)

// CourtGridItem сетка одного корта в HTTP ответе
type CourtGridItem struct {
	CourtID   int64    `json:"courtId"`
	CourtName string   `json:"courtName"`
	// States[hourIndex] — состояние ячейки: free, held_by_other,
	// held_by_me, booked, past_locked
	States []string `json:"states"`
}

// SlotMapResponse HTTP response model
type SlotMapResponse struct {
	CenterID int64           `json:"centerId"`
	Date     string          `json:"date"`
	Courts   []CourtGridItem `json:"courts"`
}

// parseSelected разбирает query-параметр selected вида
// "12:3,12:4,15:10" — пары courtId:hourIndex через запятую
func parseSelected(raw string) ([]getSlotMap.SlotRef, error) {
	if raw == "" {
		return nil, nil
	}

	pairs := strings.Split(raw, ",")
	selected := make([]getSlotMap.SlotRef, 0, len(pairs))
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid selected pair %q", pair)
		}

		courtID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid court id in pair %q", pair)
		}

		hourIndex, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid hour index in pair %q", pair)
		}

		selected = append(selected, getSlotMap.SlotRef{
			CourtID:   courtID,
			HourIndex: hourIndex,
		})
	}

	return selected, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlotMap.Response) *SlotMapResponse {
	courts := make([]CourtGridItem, len(resp.Courts))
	for i, c := range resp.Courts {
		states := make([]string, len(c.States))
		for j, s := range c.States {
			states[j] = string(s)
		}
		courts[i] = CourtGridItem{
			CourtID:   c.CourtID,
			CourtName: c.CourtName,
			States:    states,
		}
	}

	return &SlotMapResponse{
		CenterID: resp.CenterID,
		Date:     resp.Date.Format(domain.DateFormat),
		Courts:   courts,
	}
}
