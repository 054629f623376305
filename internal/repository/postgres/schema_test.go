package postgres

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// tableDef is a table parsed from the bootstrap migration: its column names
// and whether each column accepts NULL.
type tableDef struct {
	columns  []string
	nullable map[string]bool
}

func loadMigrationTables(t *testing.T) map[string]tableDef {
	t.Helper()

	path := filepath.Join("..", "..", "..", "migrations", "00001_init.sql")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	tables := map[string]tableDef{}
	current := ""
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "CREATE TABLE ") {
			current = strings.TrimSuffix(strings.Fields(line)[2], "(")
			tables[current] = tableDef{nullable: map[string]bool{}}
			continue
		}
		if current == "" {
			continue
		}
		if strings.HasPrefix(line, ")") {
			current = ""
			continue
		}
		if line == "" || strings.HasPrefix(line, "--") || strings.HasPrefix(line, "CONSTRAINT") {
			continue
		}
		name := strings.Fields(line)[0]
		def := tables[current]
		def.columns = append(def.columns, name)
		def.nullable[name] = !strings.Contains(line, "NOT NULL") && !strings.Contains(line, "PRIMARY KEY")
		tables[current] = def
	}
	return tables
}

func splitColumnList(list string) []string {
	var cols []string
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// Every repository insert must name exactly the columns the migration
// declares, and any column a repository sends as SQL NULL when the value
// is unset must be declared nullable.
func TestRepositoryColumnsMatchMigration(t *testing.T) {
	tables := loadMigrationTables(t)

	cases := []struct {
		table          string
		columns        string
		insertedAsNull []string
	}{
		{"templates", templateColumns, []string{"roi_params"}},
		{"template_overrides", overrideColumns, []string{"user_id", "organization_id", "roi_params", "last_used_at"}},
		{"plans", planColumns, nil},
		{"subscriptions", subscriptionColumns, []string{"valid_until"}},
		{"usage_periods", usageColumns, []string{"organization_id"}},
		{"documents", documentColumns, nil},
		{"executions", executionColumns, []string{"override_id", "organization_id", "error_code"}},
	}

	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			def, ok := tables[tc.table]
			require.True(t, ok, "table %s missing from migration", tc.table)

			require.ElementsMatch(t, def.columns, splitColumnList(tc.columns))

			for _, col := range tc.insertedAsNull {
				require.True(t, def.nullable[col], "%s.%s must accept NULL", tc.table, col)
			}
		})
	}
}
