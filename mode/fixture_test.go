package mode

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rubiojr/cindent/document"
	"github.com/stretchr/testify/require"
)

func fixtureDir(name string) string {
	_, f, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(f), "testdata", name)
}

func readFixture(t *testing.T, dir, name string) *document.Buffer {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return document.FromString(string(data))
}

func TestReindentFixtures(t *testing.T) {
	for _, name := range []string{"fixture_namespace", "fixture_rcpp"} {
		t.Run(name, func(t *testing.T) {
			dir := fixtureDir(name)
			in := readFixture(t, dir, "input.cpp")
			want := readFixture(t, dir, "want.cpp")

			got := New(in, WithIndentUnit("  ", 2)).Reindent(in.Lines())
			if diff := cmp.Diff(want.Lines(), got); diff != "" {
				t.Errorf("reindent mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
