package file

import (
	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/file"
)

const (
	MsgUploaded    = "File uploaded successfully"
	MsgDeleted     = "File and associated data deleted successfully"
	MsgBulkDeleted = "Bulk delete completed"
)

func ToResponseFile(f file.File) File {
	cols := f.Columns
	if cols == nil {
		cols = []string{}
	}

	return File{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		StoredName:   f.StoredName,
		UploadedBy:   f.UploadedBy,
		UploadedAt:   f.UploadedAt,
		RowCount:     f.RowCount,
		DownloadURL:  f.DownloadURL,
		ContentType:  f.ContentType,
		SizeBytes:    f.SizeBytes,
		Columns:      cols,
	}
}

func ToResponseFiles(fs file.Files) Files {
	out := make(Files, len(fs))
	for idx, f := range fs {
		out[idx] = ToResponseFile(*f)
	}

	return out
}

func ToUploadResponse(res ports.IngestResult) UploadResponse {
	return UploadResponse{
		Message:  MsgUploaded,
		FileMeta: ToResponseFile(*res.File),
		RowCount: res.RowCount,
	}
}

func ToDeleteResponse(d ports.FileDeletion) DeleteResponse {
	return DeleteResponse{
		Message: MsgDeleted,
		Details: DeleteDetails{
			FileName:               d.FileName,
			DataRowsDeleted:        d.DataRowsDeleted,
			FileDeletedFromStorage: d.BlobDeleted,
			FileSize:               d.BytesFreed,
			Warnings:               d.Warnings,
		},
	}
}

func ToBulkDeleteResponse(b ports.BulkDeletion) BulkDeleteResponse {
	res := BulkResults{
		Successful:           make([]BulkDeleted, len(b.Successful)),
		Failed:               make([]BulkFailed, len(b.Failed)),
		TotalDeleted:         b.TotalDeleted,
		TotalDataRowsDeleted: b.TotalDataRowsDeleted,
	}
	for idx, d := range b.Successful {
		res.Successful[idx] = BulkDeleted{
			FileID:                 d.FileID,
			FileName:               d.FileName,
			DataRowsDeleted:        d.DataRowsDeleted,
			FileDeletedFromStorage: d.BlobDeleted,
		}
	}
	for idx, f := range b.Failed {
		res.Failed[idx] = BulkFailed{FileID: f.FileID, Reason: f.Reason}
	}

	return BulkDeleteResponse{Message: MsgBulkDeleted, Results: res}
}

func ToSummaryResponse(s ports.DashboardSummary) SummaryResponse {
	return SummaryResponse{
		FileCount:   s.FileCount,
		RowCount:    s.RowCount,
		LatestFiles: ToResponseFiles(s.LatestFiles),
	}
}

func ToReconcileResponse(r ports.ReconcileReport) ReconcileResponse {
	out := ReconcileResponse{Mismatches: make([]Mismatch, len(r.Mismatches)), Repaired: r.Repaired}
	for idx, m := range r.Mismatches {
		out.Mismatches[idx] = Mismatch(m)
	}

	return out
}
