package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/structs"
)

// QueryParams selects and orders the rows of a query.
type QueryParams struct {
	// Where is a condition without the WHERE keyword, such as
	// "Session = ? AND Kind = ?".
	Where string
	Args  []any

	// OrderBy lists the sort columns without the ORDER BY keywords.
	OrderBy string

	// Limit caps the number of rows returned. Zero means no cap.
	Limit  int
	Offset int
}

func (p QueryParams) whereClause() string {
	if p.Where == "" {
		return ""
	}

	return " WHERE " + p.Where
}

func (p QueryParams) pageClause() string {
	clause := ""

	if p.OrderBy != "" {
		clause += " ORDER BY " + p.OrderBy
	}

	switch {
	case p.Limit > 0:
		clause += fmt.Sprintf(" LIMIT %d", p.Limit)
	case p.Offset > 0:
		clause += " LIMIT -1"
	}

	if p.Offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", p.Offset)
	}

	return clause
}

// DataReader reads back the tables written by a DataRecorder.
type DataReader interface {
	// MapTable binds a table to the entry type it was created with. A table
	// must be mapped before it is queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables in order.
	ListTables() []string

	// Query returns one pointer to an entry per selected row, and the number
	// of rows that match the condition regardless of the limit.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	Close() error
}

// QueryAs queries a table and converts the rows to entries of type T. The
// table must be mapped to T.
func QueryAs[T any](
	ctx context.Context,
	r DataReader,
	tableName string,
	params QueryParams,
) ([]T, error) {
	results, _, err := r.Query(ctx, tableName, params)
	if err != nil {
		return nil, err
	}

	entries := make([]T, 0, len(results))

	for _, result := range results {
		entry, ok := result.(*T)
		if !ok {
			return nil, fmt.Errorf("table %s holds %T, not %T",
				tableName, result, entry)
		}

		entries = append(entries, *entry)
	}

	return entries, nil
}

type mappedTable struct {
	entryType reflect.Type
	columns   []string
}

func (t mappedTable) scan(rows *sql.Rows) ([]any, error) {
	var results []any

	for rows.Next() {
		entry := reflect.New(t.entryType)
		targets := make([]any, len(t.columns))

		for i, column := range t.columns {
			targets[i] = entry.Elem().FieldByName(column).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

type sqliteReader struct {
	db     *sql.DB
	tables map[string]mappedTable
}

// NewReader opens a database file for reading.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewReaderWithDB(db)
}

// NewReaderWithDB creates a DataReader on an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:     db,
		tables: make(map[string]mappedTable),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	r.tables[tableName] = mappedTable{
		entryType: reflect.TypeOf(sampleEntry),
		columns:   structs.Names(sampleEntry),
	}
}

func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	table, ok := r.tables[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("table %s is not mapped", tableName)
	}

	var total int

	countQuery := "SELECT COUNT(*) FROM " + tableName + params.whereClause()

	err := r.db.QueryRowContext(ctx, countQuery, params.Args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting %s: %w", tableName, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s%s",
		strings.Join(table.columns, ", "), tableName,
		params.whereClause(), params.pageClause())

	rows, err := r.db.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying %s: %w", tableName, err)
	}
	defer rows.Close()

	results, err := table.scan(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", tableName, err)
	}

	return results, total, nil
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
