package get_slot_map

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getSlotMap "github.com/nvkhoa/CourtHub-SlotService/internal/usecase/get_slot_map"
)

func TestParseSelected(t *testing.T) {
	selected, err := parseSelected("12:3,12:4,15:10")
	require.NoError(t, err)
	assert.Equal(t, []getSlotMap.SlotRef{
		{CourtID: 12, HourIndex: 3},
		{CourtID: 12, HourIndex: 4},
		{CourtID: 15, HourIndex: 10},
	}, selected)
}

func TestParseSelected_Empty(t *testing.T) {
	selected, err := parseSelected("")
	require.NoError(t, err)
	assert.Nil(t, selected)
}

func TestParseSelected_Malformed(t *testing.T) {
	for _, raw := range []string{"12", "12:3:4", "abc:3", "12:xyz", "12:3,,"} {
		_, err := parseSelected(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
