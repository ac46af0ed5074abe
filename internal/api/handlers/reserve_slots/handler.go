package reserve_slots

import (
	"errors"
	"net/http"

	"github.com/nvkhoa/CourtHub-SlotService/internal/api/handlers"
	"github.com/nvkhoa/CourtHub-SlotService/internal/api/middleware"
	reserveSlots "github.com/nvkhoa/CourtHub-SlotService/internal/usecase/reserve_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCenterNotFound     = "центр не найден"
	msgCourtNotFound      = "корт не найден в центре"
	msgEmptySelection     = "не выбран ни один слот"
	msgDuplicateSlot      = "слот указан более одного раза"
	msgSlotOutsideGrid    = "часовой индекс вне сетки 05:00-24:00"
	msgPastSlot           = "нельзя забронировать прошедший час"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgSlotsTaken         = "часть выбранных слотов уже занята"
	msgPriceUnavailable   = "не удалось определить цену слота"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase ReserveSlotsUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Владелец берётся только из аутентифицированной сессии
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(ownerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Конфликт отдаём с точным списком проигранных слотов
		var conflictErr *reserveSlots.ConflictError
		if errors.As(err, &conflictErr) {
			h.logger.Warn("POST /bookings - Slots taken: owner_id=%d, center_id=%d, conflicted=%d",
				ownerID, req.CenterID, len(conflictErr.Conflicted))
			handlers.RespondJSON(w, http.StatusConflict, FromConflictError(conflictErr, msgSlotsTaken))
			return
		}

		switch {
		case errors.Is(err, reserveSlots.ErrCenterNotFound):
			h.logger.Warn("POST /bookings - Center not found: center_id=%d", req.CenterID)
			handlers.RespondNotFound(w, msgCenterNotFound)

		case errors.Is(err, reserveSlots.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: owner_id=%d, center_id=%d", ownerID, req.CenterID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, reserveSlots.ErrEmptySelection):
			h.logger.Warn("POST /bookings - Empty selection: owner_id=%d", ownerID)
			handlers.RespondBadRequest(w, msgEmptySelection)

		case errors.Is(err, reserveSlots.ErrDuplicateSlot):
			h.logger.Warn("POST /bookings - Duplicate slot: owner_id=%d", ownerID)
			handlers.RespondBadRequest(w, msgDuplicateSlot)

		case errors.Is(err, reserveSlots.ErrSlotOutsideGrid):
			h.logger.Warn("POST /bookings - Slot outside grid: owner_id=%d", ownerID)
			handlers.RespondBadRequest(w, msgSlotOutsideGrid)

		case errors.Is(err, reserveSlots.ErrPastSlot):
			h.logger.Warn("POST /bookings - Past slot: owner_id=%d, center_id=%d", ownerID, req.CenterID)
			handlers.RespondBadRequest(w, msgPastSlot)

		case errors.Is(err, reserveSlots.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: owner_id=%d", ownerID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, reserveSlots.ErrPriceUnavailable):
			h.logger.Warn("POST /bookings - Price unavailable: owner_id=%d, center_id=%d", ownerID, req.CenterID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgPriceUnavailable)

		case errors.Is(err, reserveSlots.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: owner_id=%d", ownerID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to reserve slots: owner_id=%d, center_id=%d, error=%v",
				ownerID, req.CenterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, owner_id=%d, center_id=%d, slots=%d, total=%d",
		result.ID, ownerID, req.CenterID, len(result.Slots), result.TotalAmount)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
