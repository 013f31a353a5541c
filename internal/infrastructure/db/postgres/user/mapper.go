package user

import (
	domain "sheet-insights-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		UUID:         model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		ProfilePic:   model.ProfilePic,
		Role:         model.Role,

		CreatedAt: model.CreatedAt,
	}

	return u
}
