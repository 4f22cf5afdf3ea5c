package sim

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/stretchr/testify/require"
)

func TestWorldLogSummary(t *testing.T) {
	w, err := NewWorld(testConfig())
	require.NoError(t, err)

	var b strings.Builder
	logs.SetInlineEncoder()
	logs.SetLogger(func(e logs.Entry) {
		fmt.Fprint(&b, e)
	})

	w.logSummary(StepStats{})
	require.Empty(t, b.String())

	w.logSummary(StepStats{
		Steps:          2,
		Reinserted:     7,
		CandidatePairs: 3,
		Duration:       time.Millisecond,
	})

	out := b.String()
	require.Contains(t, out, `"reinserted":7`)
	require.Contains(t, out, `"candidate_pairs":3`)
	require.Contains(t, out, `"bodies":300`)
	require.Contains(t, out, w.Tree().ID().String())
	t.Log(out)
}
