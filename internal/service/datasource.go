package service

import (
	"database/sql"
	"fmt"

	"kwintel/internal/table"

	_ "github.com/lib/pq"
)

// DataSourceConfig holds connection details for database ingestion.
type DataSourceConfig struct {
	Type     string `json:"type"` // "postgres"
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"` // "disable", "require"
}

// DataSource is an alternative ingestion path: it loads the organic or
// paid dataset from a database table instead of a CSV upload.
type DataSource interface {
	Connect(config DataSourceConfig) error
	Close() error
	ListTables() ([]string, error)
	LoadTable(tableName string, limit int) (*table.Table, error)
}

// PostgresDataSource implements DataSource for PostgreSQL.
type PostgresDataSource struct {
	db *sql.DB
}

func (p *PostgresDataSource) Connect(config DataSourceConfig) error {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	p.db = db
	return nil
}

func (p *PostgresDataSource) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDataSource) ListTables() ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name;
	`
	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

// LoadTable reads up to limit rows of a table into the pipeline's tabular
// form, coercing cells the same way the CSV loader does. The table name
// must come from ListTables; it is interpolated into the query.
func (p *PostgresDataSource) LoadTable(tableName string, limit int) (*table.Table, error) {
	allowed, err := p.ListTables()
	if err != nil {
		return nil, err
	}
	ok := false
	for _, t := range allowed {
		if t == tableName {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("unknown table %q", tableName)
	}

	query := fmt.Sprintf(`SELECT * FROM "%s" LIMIT %d`, tableName, limit)
	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := table.New(columns...)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(table.Row, len(columns))
		for i, col := range columns {
			row[col] = cellValue(values[i])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, rows.Err()
}

func cellValue(v interface{}) table.Value {
	switch val := v.(type) {
	case nil:
		return table.Missing
	case []byte:
		return table.Coerce(string(val))
	case string:
		return table.Coerce(val)
	case int64:
		return table.Number(float64(val))
	case float64:
		return table.Number(val)
	case bool:
		if val {
			return table.Number(1)
		}
		return table.Number(0)
	default:
		return table.Coerce(fmt.Sprint(val))
	}
}
