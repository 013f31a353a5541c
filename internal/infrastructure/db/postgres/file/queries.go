package file

const (
	fileColumns = `id, original_name, stored_name, uploaded_by, uploaded_at, row_count, download_url, content_type, size_bytes, header`

	InsertFile = `
		INSERT INTO files (original_name, stored_name, uploaded_by, row_count, download_url, content_type, size_bytes, header)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + fileColumns
	SelectFileByID = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE id = $1 AND uploaded_by = $2
	`
	SelectFilesByOwner = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE uploaded_by = $1
		ORDER BY uploaded_at DESC, id
		LIMIT 50 OFFSET ( ($2 - 1) * 50 )
	`
	SelectAllFilesByOwner = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE uploaded_by = $1
		ORDER BY uploaded_at DESC, id
	`
	SelectLatestFilesByOwner = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE uploaded_by = $1
		ORDER BY uploaded_at DESC, id
		LIMIT $2
	`
	CountFilesByOwner  = `SELECT count(*) FROM files WHERE uploaded_by = $1`
	DeleteFile         = `DELETE FROM files WHERE id = $1 AND uploaded_by = $2`
	DeleteFilesByOwner = `DELETE FROM files WHERE uploaded_by = $1`

	SelectRowCountMismatches = `
		SELECT f.id, f.uploaded_by, f.row_count, count(r.id)
		FROM files f
		LEFT JOIN data_rows r ON r.file_id = f.id
		GROUP BY f.id, f.uploaded_by, f.row_count
		HAVING f.row_count <> count(r.id)
		ORDER BY f.id
	`
	UpdateRowCount = `UPDATE files SET row_count = $2 WHERE id = $1`
)
