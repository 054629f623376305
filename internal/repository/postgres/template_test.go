package postgres

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	domainTemplate "github.com/docutask/docutask/internal/domain/template"
)

func TestAppendTemplateFilters(t *testing.T) {
	base := `SELECT 1 FROM templates WHERE status = $1`

	query, args, idx := appendTemplateFilters(base, []interface{}{"published"}, 2, nil)
	assert.Equal(t, base, query)
	assert.Len(t, args, 1)
	assert.Equal(t, 2, idx)

	filter := &domainTemplate.Filter{
		PublicOnly:  true,
		TemplateIDs: []string{"tmpl_1", "tmpl_2"},
	}
	query, args, idx = appendTemplateFilters(base, []interface{}{"published"}, 2, filter)
	assert.Equal(t, base+` AND public = TRUE AND id = ANY($2)`, query)
	assert.Equal(t, []interface{}{"published", pq.Array([]string{"tmpl_1", "tmpl_2"})}, args)
	assert.Equal(t, 3, idx)
}
