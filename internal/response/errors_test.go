package response

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileservice/internal/workspace"
)

func decodeBody(t *testing.T, buf *bytes.Buffer) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(buf.Bytes(), &body), "output: %s", buf.String())
	return body
}

func TestError_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"workspace kind", &workspace.Error{Op: "get_file_data", Path: "a", Kind: workspace.KindNotFound}, "not_found"},
		{"canceled", context.Canceled, KindCanceled},
		{"wrapped deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), KindCanceled},
		{"unclassified", errors.New("boom"), "io_failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Error(&buf, tt.err))
			body := decodeBody(t, &buf)
			assert.Equal(t, tt.want, body.Kind)
			assert.Equal(t, tt.err.Error(), body.Error)
		})
	}
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Usage(&buf, "usage: get <name>"))
	body := decodeBody(t, &buf)
	assert.Equal(t, KindUsage, body.Kind)
	assert.Equal(t, "usage: get <name>", body.Error)
}
