package candidate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Handles(t *testing.T) {
	tests := []struct {
		line      string
		hasHandle bool
		handle    string
	}{
		{`{"name":"Alice","twitter":"AliceGov"}`, true, "alicegov"},
		{`{"name":"Bob","twitter":null}`, false, ""},
		{`{"name":"Bob","twitter":false}`, false, ""},
		{`{"name":"Bob","twitter":""}`, false, ""},
		{`{"name":"Bob","twitter":"   "}`, false, ""},
		{`{"name":"Bob","twitter":0}`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c, err := Parse([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.hasHandle, c.HasHandle())
			assert.Equal(t, tt.handle, c.Handle())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"name":"NoHandle"}`))
	assert.ErrorIs(t, err, ErrMissingHandle)

	_, err = Parse([]byte(`{"name":`))
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	c, err := Parse([]byte(`{"name":"Alice","twitter":"a"}`))
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name())

	c, err = Parse([]byte(`{"id":17,"twitter":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, "17", c.Name())

	c, err = Parse([]byte(`{"twitter":"Carol"}`))
	require.NoError(t, err)
	assert.Equal(t, "Carol", c.Name())
}

func TestRead_SkipsBlankLinesAndReportsLine(t *testing.T) {
	in := "{\"twitter\":\"a\"}\n\n{\"twitter\":\"b\"}\n"
	cands, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, "b", cands[1].Handle())

	_, err = Read(strings.NewReader("{\"twitter\":\"a\"}\n{\"x\":1}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.ErrorIs(t, err, ErrMissingHandle)
}

func TestWriteFile_PreservesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "left.jsonlist")
	lines := []string{
		`{"name":"Alice","state":"OR","twitter":"AliceGov"}`,
		`{"twitter":null,"name":"Bob"}`,
	}
	cands, err := Read(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	require.NoError(t, WriteFile(path, cands))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(lines, "\n")+"\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cands[0].Raw, back[0].Raw)
}

func TestWriteFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "left.jsonlist")
	require.NoError(t, WriteFile(path, nil))

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, back)
}
