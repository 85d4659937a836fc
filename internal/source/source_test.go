package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeTSVLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Row
	}{
		{
			name: "plain fields",
			line: "42\talice\t100",
			want: Row{"42", "alice", "100"},
		},
		{
			name: "escaped whitespace becomes spaces",
			line: "a\\nb\\tc\\rd\tsecond",
			want: Row{"a b c d", "second"},
		},
		{
			name: "escaped backslash",
			line: "path\\\\to",
			want: Row{"path\\to"},
		},
		{
			name: "unknown escape drops the backslash",
			line: "it\\'s",
			want: Row{"it's"},
		},
		{
			name: "trailing empty field",
			line: "a\t",
			want: Row{"a", ""},
		},
		{
			name: "single field no tabs",
			line: "only",
			want: Row{"only"},
		},
		{
			name: "dangling backslash kept",
			line: "end\\",
			want: Row{"end\\"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeTSVLine(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeTSVLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestProjectRecord(t *testing.T) {
	fields := []Field{
		{Aliases: []string{"user_id", "member_id", "id"}, Default: "0"},
		{Aliases: []string{"ts", "trust_score"}, Default: "100"},
		{Aliases: []string{"username"}, Default: ""},
	}

	tests := []struct {
		name   string
		record string
		want   Row
	}{
		{
			name:   "first alias wins",
			record: `{"user_id": 7, "id": 9, "ts": 88, "username": "haru"}`,
			want:   Row{"7", "88", "haru"},
		},
		{
			name:   "fallback alias",
			record: `{"member_id": 12}`,
			want:   Row{"12", "100", ""},
		},
		{
			name:   "null counts as absent",
			record: `{"user_id": null, "id": 3, "ts": null}`,
			want:   Row{"3", "100", ""},
		},
		{
			name:   "all defaults",
			record: `{}`,
			want:   Row{"0", "100", ""},
		},
		{
			name:   "number literal preserved",
			record: `{"user_id": 1234567890123, "ts": 99.5}`,
			want:   Row{"1234567890123", "99.5", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := decodeRecord([]byte(tt.record))
			require.NoError(t, err)

			got := projectRecord(record, fields)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRESTQuerierQuery(t *testing.T) {
	var gotPath, gotSelect, gotOrder, gotLimit, gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSelect = r.URL.Query().Get("select")
		gotOrder = r.URL.Query().Get("order")
		gotLimit = r.URL.Query().Get("limit")
		gotKey = r.Header.Get("apikey")

		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"user_id": 1, "username": "tate", "current_score": 2847},
			{"user_id": 2, "username": nil, "current_score": 10},
		})
	}))
	defer srv.Close()

	q := NewREST(RESTConfig{BaseURL: srv.URL, APIKey: "secret"})

	spec := Spec{
		Name:   "users",
		Select: "user_id,username,current_score",
		Order:  "current_score.desc",
		Limit:  300,
		Fields: []Field{
			{Aliases: []string{"user_id"}, Default: "0"},
			{Aliases: []string{"username"}, Default: ""},
			{Aliases: []string{"current_score"}, Default: "0"},
		},
	}

	rows, err := q.Query(context.Background(), spec)
	require.NoError(t, err)

	require.Equal(t, "/rest/v1/users", gotPath)
	require.Equal(t, "user_id,username,current_score", gotSelect)
	require.Equal(t, "current_score.desc", gotOrder)
	require.Equal(t, "300", gotLimit)
	require.Equal(t, "secret", gotKey)

	require.Equal(t, []Row{{"1", "tate", "2847"}, {"2", "", "10"}}, rows)
}

func TestRESTQuerierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "relation does not exist", http.StatusNotFound)
	}))
	defer srv.Close()

	q := NewREST(RESTConfig{BaseURL: srv.URL, APIKey: "k"})

	_, err := q.Query(context.Background(), Spec{Name: "votes"})
	require.ErrorIs(t, err, ErrServerError)
}

func TestRESTQuerierRetriesTransient(t *testing.T) {
	attempts := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	q := NewREST(RESTConfig{BaseURL: srv.URL, APIKey: "k"})

	rows, err := q.Query(context.Background(), Spec{Name: "users"})
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Equal(t, 3, attempts)
}

func TestBuildSQL(t *testing.T) {
	spec := Spec{Name: "messages", Order: "timestamp.desc", Limit: 6000}

	want := `SELECT row_to_json(t) FROM "messages" t ORDER BY "timestamp" DESC LIMIT 6000`
	if got := buildSQL(spec); got != want {
		t.Errorf("buildSQL = %q, want %q", got, want)
	}

	plain := Spec{Name: "issues", Limit: 50}

	wantPlain := `SELECT row_to_json(t) FROM "issues" t LIMIT 50`
	if got := buildSQL(plain); got != wantPlain {
		t.Errorf("buildSQL = %q, want %q", got, wantPlain)
	}
}
