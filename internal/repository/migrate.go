package repository

import (
	"context"
	"fmt"
	"log/slog"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/joseph-ayodele/intern-tracker/constants"
)

var (
	// CollegesColumns holds the columns for the "colleges" table.
	CollegesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "college_name", Type: field.TypeString, Size: 255},
		{Name: "email", Type: field.TypeString, Unique: true, Size: 255},
		{Name: "phone", Type: field.TypeString, Size: 32},
		{Name: "address", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "head_name", Type: field.TypeString, Size: 255},
		{Name: "head_phone", Type: field.TypeString, Size: 32},
		{Name: "created_at", Type: field.TypeTime},
	}
	// CollegesTable holds the schema information for the "colleges" table.
	CollegesTable = &schema.Table{
		Name:       "colleges",
		Columns:    CollegesColumns,
		PrimaryKey: []*schema.Column{CollegesColumns[0]},
	}

	// CandidatesColumns holds the columns for the "candidates" table.
	CandidatesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "full_name", Type: field.TypeString, Size: 255},
		{Name: "email", Type: field.TypeString, Unique: true, Size: 255},
		{Name: "university", Type: field.TypeString, Nullable: true, Size: 255},
		{Name: "address", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "status", Type: field.TypeEnum, Enums: constants.StatusValues(), Default: string(constants.StatusPending)},
		{Name: "resume_name", Type: field.TypeString, Nullable: true, Size: 255},
		{Name: "application_date", Type: field.TypeTime, Nullable: true, SchemaType: map[string]string{dialect.Postgres: "date"}},
		{Name: "source", Type: field.TypeString, Nullable: true, Size: 64},
		{Name: "skills", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "college_id", Type: field.TypeInt, Nullable: true},
	}
	// CandidatesTable holds the schema information for the "candidates" table.
	CandidatesTable = &schema.Table{
		Name:       "candidates",
		Columns:    CandidatesColumns,
		PrimaryKey: []*schema.Column{CandidatesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "candidates_colleges_candidates",
				Columns:    []*schema.Column{CandidatesColumns[12]},
				RefColumns: []*schema.Column{CollegesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "candidate_status",
				Unique:  false,
				Columns: []*schema.Column{CandidatesColumns[5]},
			},
		},
	}
	// Tables holds all the tables in the schema, parents first.
	Tables = []*schema.Table{
		CollegesTable,
		CandidatesTable,
	}
)

func init() {
	CandidatesTable.ForeignKeys[0].RefTable = CollegesTable
}

// Migrate creates or upgrades the schema. Columns and indexes are never dropped.
func Migrate(ctx context.Context, drv dialect.Driver, logger *slog.Logger) error {
	logger.Info("running schema migration", "dialect", drv.Dialect(), "tables", len(Tables))
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		logger.Error("schema migration failed", "error", err)
		return fmt.Errorf("create schema: %w", err)
	}
	logger.Info("schema migration complete")
	return nil
}
