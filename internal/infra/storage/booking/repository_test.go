package booking

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/nvkhoa/CourtHub-SlotService/migrations"
)

// ddlColumns выбирает имена колонок из тела CREATE TABLE
func ddlColumns(t *testing.T, file string) map[string]bool {
	t.Helper()

	ddl, err := migrations.FS.ReadFile(file)
	require.NoError(t, err)

	columns := make(map[string]bool)
	for _, line := range strings.Split(string(ddl), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name := strings.Fields(line)[0]
		// Определения колонок начинаются со строчного идентификатора;
		// CONSTRAINT/PRIMARY KEY и goose-директивы отсеиваются
		if !unicode.IsLower(rune(name[0])) {
			continue
		}
		columns[strings.TrimSuffix(name, ",")] = true
	}
	return columns
}

// Рассинхрон имён колонок репозитория и миграции всплывает только в
// рантайме ошибкой "column does not exist" — фиксируем соответствие тестом
func TestBookingSelect_ColumnsExistInMigration(t *testing.T) {
	columns := ddlColumns(t, "20260901000001_create_bookings.sql")

	query, _, err := bookingSelect().ToSql()
	require.NoError(t, err)

	fields := strings.TrimSuffix(strings.TrimPrefix(query, "SELECT "), " FROM bookings")
	for _, col := range strings.Split(fields, ", ") {
		require.Truef(t, columns[col], "repository references column %q, but the bookings DDL does not define it", col)
	}
}

func TestBookingSlots_ColumnsExistInMigration(t *testing.T) {
	columns := ddlColumns(t, "20260901000002_create_booking_slots.sql")

	for _, col := range []string{"booking_id", "court_id", "hour_index", "price"} {
		require.Truef(t, columns[col], "booking_slots DDL does not define column %q", col)
	}
}
