package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/panelcentral/backoffice/internal/domain/user"
)

type userTableModel struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Role         string         `db:"role"`
	Capabilities pq.StringArray `db:"capabilities"`
	Status       string         `db:"status"`
	AvatarURL    sql.NullString `db:"avatar_url"`
	CreatedAt    time.Time      `db:"created_at"`
}

type userInsertModel struct {
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Role         string         `db:"role"`
	Capabilities pq.StringArray `db:"capabilities"`
	Status       string         `db:"status"`
	AvatarURL    *string        `db:"avatar_url"`
}

func userFromRow(row userTableModel) user.User {
	caps := make([]user.Capability, 0, len(row.Capabilities))
	for _, c := range row.Capabilities {
		caps = append(caps, user.Capability(c))
	}
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         user.Role(row.Role),
		Capabilities: caps,
		Status:       user.Status(row.Status),
		AvatarURL:    row.AvatarURL.String,
		CreatedAt:    row.CreatedAt,
	}
}

func capabilitiesToArray(caps []user.Capability) pq.StringArray {
	out := make(pq.StringArray, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out
}
