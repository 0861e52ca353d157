package cycle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/cycleflow/pkg/result"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
)

func TestResultFor(t *testing.T) {
	tests := []struct {
		outcome lifecycle.Outcome
		code    int
	}{
		{lifecycle.OutcomeStarted, 210},
		{lifecycle.OutcomeNotStarted, 211},
		{lifecycle.OutcomeAlreadyStarted, 212},
		{lifecycle.OutcomeStopped, 213},
		{lifecycle.OutcomeRestarted, 214},
		{lifecycle.OutcomeAlreadyStopped, 215},
		{lifecycle.OutcomeInvoked, 216},
		{lifecycle.OutcomeCannotInvoke, 217},
		{lifecycle.OutcomeStartedWithDuration, 218},
		{lifecycle.OutcomeRestartedWithDuration, 219},
		{lifecycle.OutcomeStatusNone, 220},
		{lifecycle.OutcomeStatusWorking, 221},
		{lifecycle.OutcomeStatusStopped, 223},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			r := ResultFor(tt.outcome)
			assert.Equal(t, tt.code, r.Code)
			assert.NotEmpty(t, r.Message)
		})
	}

	assert.Equal(t, result.Undeclared, ResultFor(lifecycle.Outcome(99)))
}

func TestResponseJSON(t *testing.T) {
	data, err := json.Marshal(Response{Result: WorkerStopped, State: lifecycle.StateStopped})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":213,"message":"Worker stopped.","state":"STOPPED"}`, string(data))
}
