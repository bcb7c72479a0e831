// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func setupJournal(t *testing.T) (*Journal, string) {
	dir := t.TempDir()
	return New(filepath.Join(dir, "state", "undo.log")), dir
}

func TestParseRecord(t *testing.T) {
	src := filepath.Join(string(filepath.Separator), "src", "a.txt")
	dst := filepath.Join(string(filepath.Separator), "dst", "Documents", "a.txt")

	tests := []struct {
		name    string
		line    string
		want    Record
		wantErr bool
	}{
		{
			name: "move",
			line: "MOVE|" + src + "|" + dst,
			want: Record{Action: ActionMove, Source: src, Destination: dst},
		},
		{
			name: "copy_lowercase_with_crlf",
			line: "copy|" + src + "|" + dst + "\r\n",
			want: Record{Action: ActionCopy, Source: src, Destination: dst},
		},
		{name: "too_few_fields", line: "MOVE|" + src, wantErr: true},
		{name: "too_many_fields", line: "MOVE|a|b|c", wantErr: true},
		{name: "unknown_action", line: "LINK|" + src + "|" + dst, wantErr: true},
		{name: "relative_paths", line: "MOVE|a.txt|b.txt", wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedRecord))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestAppendAndRecords(t *testing.T) {
	ctx := setupTestLogger(t)
	j, dir := setupJournal(t)

	recs := []Record{
		{Action: ActionMove, Source: filepath.Join(dir, "a"), Destination: filepath.Join(dir, "x", "a")},
		{Action: ActionCopy, Source: filepath.Join(dir, "b"), Destination: filepath.Join(dir, "x", "b")},
	}
	for _, r := range recs {
		require.NoError(t, j.Append(ctx, r))
	}

	got, err := j.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	data, err := os.ReadFile(j.Path())
	require.NoError(t, err)
	assert.Equal(t, recs[0].String()+"\n"+recs[1].String()+"\n", string(data))
}

func TestRecordsMissingJournal(t *testing.T) {
	ctx := setupTestLogger(t)
	j, _ := setupJournal(t)

	got, err := j.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	ctx := setupTestLogger(t)
	j, dir := setupJournal(t)

	j.Clear(ctx) // absent is fine

	require.NoError(t, j.Append(ctx, Record{Action: ActionMove, Source: filepath.Join(dir, "a"), Destination: filepath.Join(dir, "b")}))
	j.Clear(ctx)

	assert.NoFileExists(t, j.Path())
}

func TestReplay(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("no_journal", func(t *testing.T) {
		j, _ := setupJournal(t)

		var calls [][2]int
		stats := j.Replay(ctx, func(c, total int) { calls = append(calls, [2]int{c, total}) })

		assert.Equal(t, ReplayStats{}, stats)
		assert.Equal(t, [][2]int{{0, 0}}, calls)
	})

	t.Run("moves_files_back_newest_first", func(t *testing.T) {
		j, dir := setupJournal(t)

		// the same file moved twice: a -> b -> c. Only newest-first order
		// brings it all the way home.
		a := filepath.Join(dir, "src", "a.txt")
		b := filepath.Join(dir, "mid", "a.txt")
		c := filepath.Join(dir, "dst", "a.txt")
		require.NoError(t, os.MkdirAll(filepath.Dir(c), 0755))
		require.NoError(t, os.WriteFile(c, []byte("payload"), 0644))

		require.NoError(t, j.Append(ctx, Record{Action: ActionMove, Source: a, Destination: b}))
		require.NoError(t, j.Append(ctx, Record{Action: ActionMove, Source: b, Destination: c}))

		var calls [][2]int
		stats := j.Replay(ctx, func(cur, total int) { calls = append(calls, [2]int{cur, total}) })

		assert.Equal(t, ReplayStats{Total: 2, Succeeded: 2}, stats)
		assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)

		data, err := os.ReadFile(a)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		assert.NoFileExists(t, b)
		assert.NoFileExists(t, c)
		assert.NoFileExists(t, j.Path(), "journal is cleared after replay")
	})

	t.Run("missing_and_malformed", func(t *testing.T) {
		j, dir := setupJournal(t)

		src := filepath.Join(dir, "src", "ok.txt")
		dst := filepath.Join(dir, "dst", "ok.txt")
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
		require.NoError(t, os.WriteFile(dst, []byte("ok"), 0644))

		require.NoError(t, os.MkdirAll(filepath.Dir(j.Path()), 0755))
		content := "MOVE|" + src + "|" + dst + "\n" +
			"garbage line\n" +
			"MOVE|" + filepath.Join(dir, "src", "gone.txt") + "|" + filepath.Join(dir, "dst", "gone.txt") + "\n"
		require.NoError(t, os.WriteFile(j.Path(), []byte(content), 0644))

		var last [2]int
		stats := j.Replay(ctx, func(cur, total int) { last = [2]int{cur, total} })

		assert.Equal(t, ReplayStats{Total: 3, Succeeded: 1, Failed: 1, Missing: 1}, stats)
		assert.Equal(t, [2]int{3, 3}, last)
		assert.FileExists(t, src)
		assert.NoFileExists(t, j.Path())
	})

	t.Run("copy_record_restores_over_original", func(t *testing.T) {
		j, dir := setupJournal(t)

		src := filepath.Join(dir, "src", "doc.txt")
		dst := filepath.Join(dir, "dst", "doc.txt")
		require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
		require.NoError(t, os.WriteFile(src, []byte("same"), 0644))
		require.NoError(t, os.WriteFile(dst, []byte("same"), 0644))
		require.NoError(t, j.Append(ctx, Record{Action: ActionCopy, Source: src, Destination: dst}))

		stats := j.Replay(ctx, nil)

		assert.Equal(t, 1, stats.Succeeded)
		assert.FileExists(t, src)
		assert.NoFileExists(t, dst, "the copy is gone after undo")
	})
}

func TestLock(t *testing.T) {
	ctx := setupTestLogger(t)
	j, _ := setupJournal(t)

	unlock, err := j.Lock(ctx)
	require.NoError(t, err)

	_, err = New(j.Path()).Lock(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))

	unlock()

	unlock2, err := j.Lock(ctx)
	require.NoError(t, err)
	unlock2()
}

func TestLen(t *testing.T) {
	ctx := setupTestLogger(t)
	j, dir := setupJournal(t)

	n, err := j.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, j.Append(ctx, Record{Action: ActionMove, Source: filepath.Join(dir, "a"), Destination: filepath.Join(dir, "b")}))
	f, err := os.OpenFile(j.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("not a record\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	n, err = j.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
