package datarow

import (
	"encoding/json"
	"fmt"

	domain "sheet-insights-api/internal/domain/datarow"
)

func fromDBModel(model *DataRow) (*domain.DataRow, error) {
	data := make(domain.Row)
	if len(model.Data) > 0 {
		if err := json.Unmarshal(model.Data, &data); err != nil {
			return nil, fmt.Errorf("decode row %d of file %s: %w", model.RowIndex, model.FileID, err)
		}
	}

	return &domain.DataRow{
		ID:         model.ID,
		FileID:     model.FileID,
		RowIndex:   int(model.RowIndex),
		Data:       data,
		UploadedBy: model.UploadedBy,
		CreatedAt:  model.CreatedAt,
	}, nil
}

func fromDBModels(models DataRows) (domain.DataRows, error) {
	rs := make(domain.DataRows, len(models))
	for idx, m := range models {
		r, err := fromDBModel(m)
		if err != nil {
			return nil, err
		}
		rs[idx] = r
	}

	return rs, nil
}

// toCopyRow is the column tuple written by COPY, see copyColumns.
func toCopyRow(r *domain.DataRow) ([]any, error) {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return nil, fmt.Errorf("encode row %d: %w", r.RowIndex, err)
	}

	return []any{r.FileID, int32(r.RowIndex), data, r.UploadedBy}, nil
}
