package file

import (
	domain "sheet-insights-api/internal/domain/file"
)

func fromDBModel(model *File) *domain.File {
	var f = &domain.File{
		ID:           model.ID,
		OriginalName: model.OriginalName,
		StoredName:   model.StoredName,
		UploadedBy:   model.UploadedBy,
		UploadedAt:   model.UploadedAt,
		RowCount:     int(model.RowCount),
		DownloadURL:  model.DownloadURL,
		ContentType:  model.ContentType,
		SizeBytes:    model.SizeBytes,
		Columns:      model.Header,
	}
	if f.Columns == nil {
		f.Columns = []string{}
	}

	return f
}

func fromDBModels(models Files) domain.Files {
	fs := make(domain.Files, len(models))
	for idx, f := range models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}
