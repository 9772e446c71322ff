package determinism

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestTieBreaker_Priority(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		keys    []string
		ordered []string
		want    string
	}{
		{
			name:    "source row id wins over everything",
			columns: []string{"created_at", "_source_row_id", "row_id"},
			want:    "_source_row_id",
		},
		{
			name:    "row id before load timestamp",
			columns: []string{"load_ts", "row_id"},
			want:    "row_id",
		},
		{
			name:    "load timestamp by substring",
			columns: []string{"amount", "batch_load_ts"},
			want:    "batch_load_ts",
		},
		{
			name:    "created at",
			columns: []string{"amount", "created_at"},
			want:    "created_at",
		},
		{
			name:    "surrogate key suffix",
			columns: []string{"amount", "customer_sk"},
			want:    "customer_sk",
		},
		{
			name:    "declared key as last resort",
			columns: []string{"amount", "order_id"},
			keys:    []string{"order_id"},
			want:    "order_id",
		},
		{
			name:    "no candidate",
			columns: []string{"amount", "status"},
			want:    "",
		},
		{
			name: "no columns",
			want: "",
		},
		{
			name:    "ordering columns are not candidates",
			columns: []string{"email", "created_at", "customer_id"},
			keys:    []string{"customer_id"},
			ordered: []string{"created_at"},
			want:    "customer_id",
		},
		{
			name:    "exclusion is case insensitive",
			columns: []string{"Created_At", "order_id"},
			keys:    []string{"order_id"},
			ordered: []string{"created_at"},
			want:    "order_id",
		},
		{
			name:    "everything already ordered leaves no candidate",
			columns: []string{"created_at"},
			keys:    nil,
			ordered: []string{"created_at"},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestTieBreaker(tt.columns, tt.keys, tt.ordered))
		})
	}
}

func TestSuggestTieBreaker_KeyMustBePresent(t *testing.T) {
	// A declared key that is not among the entity's columns is not usable.
	assert.Equal(t, "", SuggestTieBreaker([]string{"amount"}, []string{"order_id"}, nil))
}
