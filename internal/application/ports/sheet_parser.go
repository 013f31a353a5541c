package ports

import (
	"sheet-insights-api/internal/infrastructure/sheet"
)

type SheetParser interface {
	Parse(name string, data []byte) (*sheet.Sheet, error)
}
