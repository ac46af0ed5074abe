package get_slot_map

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nvkhoa/CourtHub-SlotService/internal/api/handlers"
	"github.com/nvkhoa/CourtHub-SlotService/internal/api/middleware"
	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	getSlotMap "github.com/nvkhoa/CourtHub-SlotService/internal/usecase/get_slot_map"
)

const (
	msgInvalidCenterID = "некорректный ID центра"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSelected = "некорректный параметр selected, ожидается courtId:hourIndex через запятую"
	msgCenterNotFound  = "центр не найден"
	msgInvalidInput    = "некорректные данные запроса"
)

type Handler struct {
	useCase GetSlotMapUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotMapUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/centers/{centerId}/slot-map
// Query params: date (required, YYYY-MM-DD), selected (optional,
// пары courtId:hourIndex через запятую).
// Эндпоинт публичный: зритель определяется по заголовку X-User-ID,
// если он есть; анонимный зритель видит чужие холды как held_by_other.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем centerId из URL
	centerIDStr := vars["centerId"]
	centerID, err := strconv.ParseInt(centerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /centers/{id}/slot-map - Invalid center ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCenterID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /centers/{id}/slot-map - Missing date: center_id=%d", centerID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /centers/{id}/slot-map - Invalid date: center_id=%d, date=%s", centerID, dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Извлекаем selected из query параметров (опционально)
	selected, err := parseSelected(r.URL.Query().Get("selected"))
	if err != nil {
		h.logger.Warn("GET /centers/{id}/slot-map - Invalid selected: center_id=%d, error=%v", centerID, err)
		handlers.RespondBadRequest(w, msgInvalidSelected)
		return
	}

	viewerID := middleware.OptionalUserID(r)

	result, err := h.useCase.Execute(r.Context(), &getSlotMap.Request{
		CenterID: centerID,
		Date:     date,
		ViewerID: viewerID,
		Selected: selected,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlotMap.ErrCenterNotFound):
			h.logger.Warn("GET /centers/{id}/slot-map - Center not found: center_id=%d", centerID)
			handlers.RespondNotFound(w, msgCenterNotFound)

		case errors.Is(err, getSlotMap.ErrInvalidInput):
			h.logger.Warn("GET /centers/{id}/slot-map - Invalid input: center_id=%d", centerID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /centers/{id}/slot-map - Failed to build slot map: center_id=%d, error=%v",
				centerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /centers/{id}/slot-map - Slot map retrieved: center_id=%d, date=%s, courts=%d, viewer_id=%d",
		centerID, dateStr, len(result.Courts), viewerID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
