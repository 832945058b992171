// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataset

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/database/schema"
	"github.com/taibuivan/stager/internal/platform/dberr"
	"github.com/taibuivan/stager/internal/platform/postgres"
	"github.com/taibuivan/stager/pkg/pointer"
	"github.com/taibuivan/stager/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed dataset store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Bulk Creation

/*
BulkCreate persists a submitted batch.

Description: Families and participants are upserted so a batch can add
datasets to people already on record. Each row gets its own tissue sample and
dataset. File links and group grants for a dataset go out as one pgx batch.
*/
func (repository *PostgresRepository) BulkCreate(context context.Context, rows []dataentry.Row, groupIDs []string, createdBy string) ([]string, error) {
	ids := make([]string, 0, len(rows))

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		families := make(map[string]string)
		participants := make(map[string]string)

		for i, row := range rows {
			// 1. Family
			familyID, ok := families[row.FamilyCodename]
			if !ok {
				var err error
				if familyID, err = upsertFamily(context, tx, row.FamilyCodename); err != nil {
					return err
				}
				families[row.FamilyCodename] = familyID
			}

			// 2. Participant
			participantKey := familyID + "/" + row.ParticipantCodename
			participantID, ok := participants[participantKey]
			if !ok {
				var err error
				if participantID, err = upsertParticipant(context, tx, familyID, row); err != nil {
					return err
				}
				participants[participantKey] = participantID
			}

			// 3. Tissue sample and dataset
			tissueSampleID := uuid.New()
			if err := insertTissueSample(context, tx, tissueSampleID, participantID, row); err != nil {
				return err
			}

			datasetID := uuid.New()
			if err := insertDataset(context, tx, datasetID, tissueSampleID, row, createdBy); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}

			// 4. Links and grants
			if err := linkDataset(context, tx, datasetID, row.LinkedFiles, groupIDs); err != nil {
				return err
			}

			ids = append(ids, datasetID)
		}
		return nil
	})
	if err != nil {
		return nil, dberr.Wrap(err, "bulk_create_datasets")
	}

	return ids, nil
}

func upsertFamily(context context.Context, tx pgx.Tx, codename string) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s) VALUES ($1, $2)
		ON CONFLICT (%[3]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s
		RETURNING %[2]s
	`, schema.CoreFamily.Table, schema.CoreFamily.ID, schema.CoreFamily.Codename)

	var id string
	err := tx.QueryRow(context, query, uuid.New(), codename).Scan(&id)
	return id, err
}

// upsertParticipant keeps stored optional values when the row leaves them empty.
func upsertParticipant(context context.Context, tx pgx.Tx, familyID string, row dataentry.Row) (string, error) {
	p := schema.CoreParticipant
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s, %[10]s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (%[3]s, %[4]s) DO UPDATE SET
			%[5]s = EXCLUDED.%[5]s,
			%[6]s = COALESCE(EXCLUDED.%[6]s, %[1]s.%[6]s),
			%[7]s = COALESCE(EXCLUDED.%[7]s, %[1]s.%[7]s),
			%[8]s = COALESCE(EXCLUDED.%[8]s, %[1]s.%[8]s),
			%[9]s = COALESCE(EXCLUDED.%[9]s, %[1]s.%[9]s),
			%[10]s = COALESCE(EXCLUDED.%[10]s, %[1]s.%[10]s),
			%[11]s = NOW()
		RETURNING %[2]s
	`, p.Table, p.ID, p.FamilyID, p.Codename, p.ParticipantType, p.Sex,
		p.Affected, p.Solved, p.Institution, p.Notes, p.UpdatedAt)

	var id string
	err := tx.QueryRow(context, query,
		uuid.New(), familyID, row.ParticipantCodename, row.ParticipantType, pointer.NilIfZero(row.Sex),
		row.Affected, row.Solved, pointer.NilIfZero(row.Institution), pointer.NilIfZero(row.Notes),
	).Scan(&id)
	return id, err
}

func insertTissueSample(context context.Context, tx pgx.Tx, id, participantID string, row dataentry.Row) error {
	t := schema.CoreTissueSample
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		t.Table, t.ID, t.ParticipantID, t.SampleType, t.ExtractionProtocol)

	_, err := tx.Exec(context, query, id, participantID, row.TissueSampleType, pointer.NilIfZero(row.ExtractionProtocol))
	return err
}

func insertDataset(context context.Context, tx pgx.Tx, id, tissueSampleID string, row dataentry.Row, createdBy string) error {
	columns := schema.CoreDataset.InsertColumns()
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sequencingDate, err := time.Parse(dataentry.SequencingDateLayout, row.SequencingDate)
	if err != nil {
		return fmt.Errorf("sequencing date: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		schema.CoreDataset.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	_, err = tx.Exec(context, query,
		id, tissueSampleID, row.DatasetType, row.Condition, sequencingDate,
		pointer.NilIfZero(row.CaptureKit), pointer.NilIfZero(row.LibraryPrepMethod), wholeNumber(row.ReadLength), pointer.NilIfZero(row.ReadType), pointer.NilIfZero(row.SequencingCentre),
		pointer.NilIfZero(row.BatchID), row.VCFAvailable, pointer.NilIfZero(row.CandidateGenes), row.RIN, row.DV200,
		row.Concentration, pointer.NilIfZero(row.Sequencer), pointer.NilIfZero(row.SpikeIn), pointer.NilIfZero(createdBy),
	)
	return err
}

func linkDataset(context context.Context, tx pgx.Tx, datasetID string, files []dataentry.LinkedFile, groupIDs []string) error {
	if len(files) == 0 && len(groupIDs) == 0 {
		return nil
	}

	fileQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.CoreDatasetFile.Table, schema.CoreDatasetFile.DatasetID, schema.CoreDatasetFile.Path)
	groupQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.CoreDatasetGroup.Table, schema.CoreDatasetGroup.DatasetID, schema.CoreDatasetGroup.GroupID)

	batch := &pgx.Batch{}
	for _, file := range files {
		batch.Queue(fileQuery, datasetID, file.Path)
	}
	for _, groupID := range groupIDs {
		batch.Queue(groupQuery, datasetID, groupID)
	}

	return tx.SendBatch(context, batch).Close()
}

// # Dataset Retrieval

const datasetSelect = `
	SELECT d.id, d.tissuesampleid, t.sampletype, COALESCE(t.extractionprotocol, ''),
		p.id, p.codename, f.codename,
		d.datasettype, d.condition, d.sequencingdate,
		COALESCE(d.capturekit, ''), COALESCE(d.libraryprepmethod, ''), d.readlength,
		COALESCE(d.readtype, ''), COALESCE(d.sequencingcentre, ''), COALESCE(d.batchid, ''),
		d.vcfavailable, COALESCE(d.candidategenes, ''), d.rin, d.dv200, d.concentration,
		COALESCE(d.sequencer, ''), COALESCE(d.spikein, ''),
		ARRAY(SELECT df.path FROM core.datasetfile df WHERE df.datasetid = d.id ORDER BY df.path),
		ARRAY(
			SELECT g.code FROM core.datasetgroup dg
			JOIN core.permissiongroup g ON g.id = dg.groupid
			WHERE dg.datasetid = d.id ORDER BY g.code
		),
		d.createdby, d.createdat, d.updatedat`

const datasetFrom = `
	FROM core.dataset d
	JOIN core.tissuesample t ON t.id = d.tissuesampleid
	JOIN core.participant p ON p.id = t.participantid
	JOIN core.family f ON f.id = p.familyid
	WHERE TRUE`

// scopeClause restricts rows to datasets granted to one of the scope's groups.
// datasetColumn names the dataset id expression in the outer query.
func scopeClause(scope Scope, datasetColumn string, argID int) (string, []any) {
	if !scope.Restricted {
		return "", nil
	}
	return fmt.Sprintf(` AND EXISTS (
		SELECT 1 FROM core.datasetgroup sdg
		JOIN core.permissiongroup sg ON sg.id = sdg.groupid
		WHERE sdg.datasetid = %s AND sg.code = ANY($%d)
	)`, datasetColumn, argID), []any{scope.Groups}
}

func scanDataset(row pgx.Row, dataset *Dataset, extra ...any) error {
	var (
		sequencingDate time.Time
		readLength     *int32
	)
	targets := []any{
		&dataset.ID, &dataset.TissueSampleID, &dataset.TissueSampleType, &dataset.ExtractionProtocol,
		&dataset.ParticipantID, &dataset.ParticipantCodename, &dataset.FamilyCodename,
		&dataset.DatasetType, &dataset.Condition, &sequencingDate,
		&dataset.CaptureKit, &dataset.LibraryPrepMethod, &readLength,
		&dataset.ReadType, &dataset.SequencingCentre, &dataset.BatchID,
		&dataset.VCFAvailable, &dataset.CandidateGenes, &dataset.RIN, &dataset.DV200, &dataset.Concentration,
		&dataset.Sequencer, &dataset.SpikeIn,
		&dataset.LinkedFiles, &dataset.Groups,
		&dataset.CreatedBy, &dataset.CreatedAt, &dataset.UpdatedAt,
	}
	if err := row.Scan(append(targets, extra...)...); err != nil {
		return err
	}

	dataset.SequencingDate = sequencingDate.Format(dataentry.SequencingDateLayout)
	if readLength != nil {
		value := int(*readLength)
		dataset.ReadLength = &value
	}
	return nil
}

/*
List returns datasets matching the filter within the caller's scope.

Description: The dataset type is matched exactly; the group filter keeps
datasets granted to that group code.
*/
func (repository *PostgresRepository) List(context context.Context, scope Scope, filter Filter, limit, offset int) ([]*Dataset, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(datasetSelect + ", COUNT(*) OVER()" + datasetFrom)

	args := []any{}
	argID := 1

	if clause, scopeArgs := scopeClause(scope, "d.id", argID); clause != "" {
		queryBuilder.WriteString(clause)
		args = append(args, scopeArgs...)
		argID++
	}

	if filter.DatasetType != "" {
		fmt.Fprintf(&queryBuilder, " AND d.datasettype = $%d", argID)
		args = append(args, filter.DatasetType)
		argID++
	}

	if filter.GroupCode != "" {
		fmt.Fprintf(&queryBuilder, ` AND EXISTS (
			SELECT 1 FROM core.datasetgroup fdg
			JOIN core.permissiongroup fg ON fg.id = fdg.groupid
			WHERE fdg.datasetid = d.id AND fg.code = $%d
		)`, argID)
		args = append(args, filter.GroupCode)
		argID++
	}

	if filter.ParticipantID != "" {
		fmt.Fprintf(&queryBuilder, " AND p.id = $%d", argID)
		args = append(args, filter.ParticipantID)
		argID++
	}

	fmt.Fprintf(&queryBuilder, " ORDER BY d.createdat DESC, d.id DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_datasets")
	}
	defer rows.Close()

	datasets := make([]*Dataset, 0)
	var total int
	for rows.Next() {
		dataset := &Dataset{}
		if err := scanDataset(rows, dataset, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_dataset")
		}
		datasets = append(datasets, dataset)
	}

	return datasets, total, dberr.Wrap(rows.Err(), "list_datasets")
}

// FindByID retrieves one dataset visible within scope.
func (repository *PostgresRepository) FindByID(context context.Context, scope Scope, id string) (*Dataset, error) {
	query := datasetSelect + datasetFrom + " AND d.id = $1"
	args := []any{id}
	if clause, scopeArgs := scopeClause(scope, "d.id", 2); clause != "" {
		query += clause
		args = append(args, scopeArgs...)
	}

	dataset := &Dataset{}
	if err := scanDataset(repository.pool.QueryRow(context, query, args...), dataset); err != nil {
		return nil, dberr.NotFound(err, "Dataset", "get_dataset_by_id")
	}
	return dataset, nil
}

// # Participant Retrieval

const participantSelect = `
	SELECT p.id, p.familyid, f.codename, p.codename, p.participanttype,
		COALESCE(p.sex, ''), p.affected, p.solved,
		COALESCE(p.institution, ''), COALESCE(p.notes, ''),
		(SELECT COUNT(*) FROM core.tissuesample ct JOIN core.dataset cd ON cd.tissuesampleid = ct.id WHERE ct.participantid = p.id),
		p.createdat, p.updatedat`

const participantFrom = `
	FROM core.participant p
	JOIN core.family f ON f.id = p.familyid
	WHERE TRUE`

// participantScopeClause keeps participants with at least one visible dataset.
func participantScopeClause(scope Scope, argID int) (string, []any) {
	inner, args := scopeClause(scope, "vd.id", argID)
	if inner == "" {
		return "", nil
	}
	return fmt.Sprintf(` AND EXISTS (
		SELECT 1 FROM core.tissuesample vt
		JOIN core.dataset vd ON vd.tissuesampleid = vt.id
		WHERE vt.participantid = p.id%s
	)`, inner), args
}

func participantTargets(participant *Participant) []any {
	return []any{
		&participant.ID, &participant.FamilyID, &participant.FamilyCodename, &participant.Codename,
		&participant.ParticipantType, &participant.Sex, &participant.Affected, &participant.Solved,
		&participant.Institution, &participant.Notes, &participant.DatasetCount,
		&participant.CreatedAt, &participant.UpdatedAt,
	}
}

// ListParticipants returns participants matching the filter within scope.
func (repository *PostgresRepository) ListParticipants(context context.Context, scope Scope, filter ParticipantFilter, limit, offset int) ([]*Participant, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(participantSelect + ", COUNT(*) OVER()" + participantFrom)

	args := []any{}
	argID := 1

	if clause, scopeArgs := participantScopeClause(scope, argID); clause != "" {
		queryBuilder.WriteString(clause)
		args = append(args, scopeArgs...)
		argID++
	}

	if filter.Query != "" {
		fmt.Fprintf(&queryBuilder, " AND p.codename ILIKE $%d", argID)
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if filter.FamilyCodename != "" {
		fmt.Fprintf(&queryBuilder, " AND f.codename = $%d", argID)
		args = append(args, filter.FamilyCodename)
		argID++
	}

	fmt.Fprintf(&queryBuilder, " ORDER BY f.codename ASC, p.codename ASC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_participants")
	}
	defer rows.Close()

	participants := make([]*Participant, 0)
	var total int
	for rows.Next() {
		participant := &Participant{}
		if err := rows.Scan(append(participantTargets(participant), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_participant")
		}
		participants = append(participants, participant)
	}

	return participants, total, dberr.Wrap(rows.Err(), "list_participants")
}

// FindParticipant retrieves one participant visible within scope.
func (repository *PostgresRepository) FindParticipant(context context.Context, scope Scope, id string) (*Participant, error) {
	query := participantSelect + participantFrom + " AND p.id = $1"
	args := []any{id}
	if clause, scopeArgs := participantScopeClause(scope, 2); clause != "" {
		query += clause
		args = append(args, scopeArgs...)
	}

	participant := &Participant{}
	if err := repository.pool.QueryRow(context, query, args...).Scan(participantTargets(participant)...); err != nil {
		return nil, dberr.NotFound(err, "Participant", "get_participant_by_id")
	}
	return participant, nil
}

// # Helpers

// wholeNumber rounds a validated read length for the integer column.
func wholeNumber(value *float64) *int32 {
	if value == nil {
		return nil
	}
	return pointer.To(int32(math.Round(*value)))
}
