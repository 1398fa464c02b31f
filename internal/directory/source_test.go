package directory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/parquet"
	"github.com/huangsam/callerid/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVSource(t *testing.T) {
	path := writeFile(t, "contacts.csv", `name,numbers
# exported from phone
Mother,+420 123 456 789;00420 111 222 333
"Office, Main",222333444,
Nobody
`)
	records, err := (&CSVSource{Path: path}).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []schema.ContactRecord{
		{Name: "Mother", Numbers: []string{"+420 123 456 789", "00420 111 222 333"}},
		{Name: "Office, Main", Numbers: []string{"222333444"}},
		{Name: "Nobody"},
	}, records)
}

func TestCSVSource_NoHeader(t *testing.T) {
	records, err := readCSV(context.Background(), strings.NewReader("Mother,123456789\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mother", records[0].Name)
}

func TestCSVSource_Errors(t *testing.T) {
	_, err := (&CSVSource{Path: filepath.Join(t.TempDir(), "missing.csv")}).Enumerate(context.Background())
	require.Error(t, err)

	_, err = readCSV(context.Background(), strings.NewReader("Mother,\"unterminated\n"))
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = readCSV(ctx, strings.NewReader("Mother,123\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestJSONSource(t *testing.T) {
	path := writeFile(t, "contacts.json", `[
		{"name": "Mother", "numbers": ["+420 123 456 789"]},
		{"name": "Office", "numbers": ["222333444", "222333445"]}
	]`)
	records, err := (&JSONSource{Path: path}).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []schema.ContactRecord{
		{Name: "Mother", Numbers: []string{"+420 123 456 789"}},
		{Name: "Office", Numbers: []string{"222333444", "222333445"}},
	}, records)
}

func TestJSONSource_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"object", `{"name": "Mother"}`},
		{"truncated", `[{"name": "Mother"`},
		{"bad element", `[1, 2]`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readJSON(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}
}

func TestParquetSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.parquet")
	require.NoError(t, parquet.WriteContactsParquet([]parquet.ContactRow{
		{Name: "Mother", Numbers: []string{"+420123456789"}},
	}, path))

	records, err := (&ParquetSource{Path: path}).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []schema.ContactRecord{{Name: "Mother", Numbers: []string{"+420123456789"}}}, records)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&ParquetSource{Path: path}).Enumerate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewFileSource(t *testing.T) {
	tests := []struct {
		path    string
		format  schema.ContactFormat
		want    contract.ContactSource
		wantErr bool
	}{
		{"book.csv", "", &CSVSource{Path: "book.csv"}, false},
		{"book.JSON", "", &JSONSource{Path: "book.JSON"}, false},
		{"book.parquet", "", &ParquetSource{Path: "book.parquet"}, false},
		{"book.txt", schema.CSVContacts, &CSVSource{Path: "book.txt"}, false},
		{"book.txt", "", nil, true},
		{"", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.path+string(tt.format), func(t *testing.T) {
			src, err := NewFileSource(tt.path, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, src)
		})
	}
}

func TestGatedSource(t *testing.T) {
	inner := &contract.MockContactSource{}
	inner.On("Enumerate", mock.Anything).Return([]schema.ContactRecord{{Name: "Mother"}}, nil).Once()

	gate := NewStaticGate(schema.NotDetermined, schema.Authorized)
	src := NewGatedSource(gate, inner)

	_, err := src.Enumerate(context.Background())
	require.ErrorIs(t, err, contract.ErrAccess)
	inner.AssertNotCalled(t, "Enumerate", mock.Anything)

	require.True(t, gate.RequestAccess(context.Background()))
	records, err := src.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	inner.AssertExpectations(t)
}

func TestUnavailableSource(t *testing.T) {
	_, cfgErr := NewFileSource("", "")
	require.Error(t, cfgErr)

	records, err := UnavailableSource{Err: cfgErr}.Enumerate(context.Background())
	assert.Nil(t, records)
	assert.ErrorIs(t, err, cfgErr)
}
