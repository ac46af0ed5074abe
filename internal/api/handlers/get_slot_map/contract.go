package get_slot_map

import (
	"context"

	getSlotMap "github.com/nvkhoa/CourtHub-SlotService/internal/usecase/get_slot_map"
)

type GetSlotMapUseCase interface {
	Execute(ctx context.Context, req *getSlotMap.Request) (*getSlotMap.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
