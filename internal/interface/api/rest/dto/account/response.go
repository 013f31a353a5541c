package account

import (
	"time"

	"github.com/google/uuid"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/user"
)

type (
	User struct {
		ID            uuid.UUID `json:"id"`
		Name          string    `json:"name"`
		Email         string    `json:"email"`
		Role          string    `json:"role"`
		HasProfilePic *bool     `json:"hasProfilePic,omitempty"`
	}
	Deletion struct {
		Success             bool     `json:"success"`
		User                *User    `json:"user"`
		FilesDeleted        int      `json:"filesDeleted"`
		DataRowsDeleted     int64    `json:"dataRowsDeleted"`
		StorageFreed        int64    `json:"storageFreed"`
		FileMetadataDeleted int64    `json:"fileMetadataDeleted"`
		ProfilePicDeleted   bool     `json:"profilePicDeleted"`
		Errors              []string `json:"errors"`
		Warnings            []string `json:"warnings"`
	}
	DeletionResponse struct {
		Message string   `json:"message"`
		Details Deletion `json:"details"`
	}
	FailedResponse struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	Stats struct {
		User        User      `json:"user"`
		Files       int       `json:"files"`
		DataRows    int64     `json:"dataRows"`
		StorageUsed int64     `json:"storageUsed"`
		JoinDate    time.Time `json:"joinDate"`
	}
)

func toUser(u user.User) User {
	return User{ID: u.UUID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func ToDeletion(d ports.AccountDeletion) Deletion {
	out := Deletion{
		Success:             d.Success,
		FilesDeleted:        d.FilesDeleted,
		DataRowsDeleted:     d.DataRowsDeleted,
		StorageFreed:        d.StorageFreed,
		FileMetadataDeleted: d.FileMetadataDeleted,
		ProfilePicDeleted:   d.ProfilePicDeleted,
		Errors:              d.Errors,
		Warnings:            d.Warnings,
	}
	if d.User != nil {
		u := toUser(*d.User)
		out.User = &u
	}

	return out
}

func ToStats(s ports.AccountDeletionStats) Stats {
	u := toUser(*s.User)
	has := s.User.ProfilePic != nil && *s.User.ProfilePic != ""
	u.HasProfilePic = &has

	return Stats{
		User:        u,
		Files:       s.Files,
		DataRows:    s.DataRows,
		StorageUsed: s.StorageUsed,
		JoinDate:    s.User.CreatedAt,
	}
}
