package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/panelcentral/backoffice/internal/domain/content"
)

type contentEntryTableModel struct {
	ID                int64          `db:"id"`
	UserID            int64          `db:"user_id"`
	Business          string         `db:"business"`
	FormatType        string         `db:"format_type"`
	Input             []byte         `db:"input"`
	OutputText        string         `db:"output_text"`
	Status            string         `db:"status"`
	Notes             sql.NullString `db:"notes"`
	ScheduledAt       sql.NullTime   `db:"scheduled_at"`
	ScheduledPlatform sql.NullString `db:"scheduled_platform"`
	CreatedAt         time.Time      `db:"created_at"`
}

type contentEntryInsertModel struct {
	UserID     int64  `db:"user_id"`
	Business   string `db:"business"`
	FormatType string `db:"format_type"`
	Input      []byte `db:"input"`
	OutputText string `db:"output_text"`
	Status     string `db:"status"`
}

type ideaTableModel struct {
	ID              int64          `db:"id"`
	Business        string         `db:"business"`
	Text            string         `db:"text"`
	Format          sql.NullString `db:"format"`
	Status          string         `db:"status"`
	SeasonRelevance sql.NullString `db:"season_relevance"`
	CreatedAt       time.Time      `db:"created_at"`
	UsedAt          sql.NullTime   `db:"used_at"`
}

type ideaInsertModel struct {
	Business        string  `db:"business"`
	Text            string  `db:"text"`
	Format          *string `db:"format"`
	Status          string  `db:"status"`
	SeasonRelevance *string `db:"season_relevance"`
}

type calendarItemModel struct {
	EntryID     int64     `db:"id"`
	Business    string    `db:"business"`
	FormatType  string    `db:"format_type"`
	Platform    string    `db:"scheduled_platform"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Status      string    `db:"status"`
}

func contentEntryFromRow(row contentEntryTableModel) (content.Entry, error) {
	e := content.Entry{
		ID:                row.ID,
		UserID:            row.UserID,
		Business:          row.Business,
		FormatType:        row.FormatType,
		OutputText:        row.OutputText,
		Status:            content.EntryStatus(row.Status),
		Notes:             row.Notes.String,
		ScheduledAt:       nullTimeToPtr(row.ScheduledAt),
		ScheduledPlatform: row.ScheduledPlatform.String,
		CreatedAt:         row.CreatedAt,
	}
	if len(row.Input) > 0 {
		if err := sonic.Unmarshal(row.Input, &e.Input); err != nil {
			return content.Entry{}, fmt.Errorf("decode content entry input: %w", err)
		}
	}
	return e, nil
}

func ideaFromRow(row ideaTableModel) content.Idea {
	return content.Idea{
		ID:              row.ID,
		Business:        row.Business,
		Text:            row.Text,
		Format:          row.Format.String,
		Status:          content.IdeaStatus(row.Status),
		SeasonRelevance: row.SeasonRelevance.String,
		CreatedAt:       row.CreatedAt,
		UsedAt:          nullTimeToPtr(row.UsedAt),
	}
}
