package datarow

const (
	rowColumns = `id, file_id, row_index, data, uploaded_by, created_at`

	TableDataRows = "data_rows"

	SelectRowsByFile = `
		SELECT ` + rowColumns + `
		FROM data_rows
		WHERE file_id = $1 AND uploaded_by = $2
		ORDER BY row_index
		LIMIT NULLIF($3::int, 0)
	`
	SelectLatestRowsByOwner = `
		SELECT ` + rowColumns + `
		FROM data_rows
		WHERE uploaded_by = $1
		ORDER BY created_at DESC, row_index DESC
		LIMIT $2
	`
	CountRowsByFile   = `SELECT count(*) FROM data_rows WHERE file_id = $1`
	CountRowsByOwner  = `SELECT count(*) FROM data_rows WHERE uploaded_by = $1`
	DeleteRowsByFile  = `DELETE FROM data_rows WHERE file_id = $1`
	DeleteRowsByOwner = `DELETE FROM data_rows WHERE uploaded_by = $1`
)

var copyColumns = []string{"file_id", "row_index", "data", "uploaded_by"}
