package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit"))
	CacheLookupsTotal.WithLabelValues("hit").Inc()
	if got := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RequestsTotal.WithLabelValues("stream", "ok").Inc()
	FragmentsTotal.Add(2)

	path := filepath.Join(t.TempDir(), "sgpt.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"sgpt_requests_total", "sgpt_fragments_total"} {
		if !strings.Contains(string(data), name) {
			t.Errorf("expected %s in textfile output", name)
		}
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	if err := WriteTextfile("/nonexistent/dir/sgpt.prom"); err == nil {
		t.Error("expected error for unwritable path")
	}
}
