package user

const (
	userColumns = `id, name, email, password_hash, profile_pic, role, created_at`

	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	SelectUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	InsertUser = `
		INSERT INTO users (name, email, password_hash, profile_pic, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	DeleteUserByID = `DELETE FROM users WHERE id = $1`
)
