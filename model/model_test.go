package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

func TestComponent_ContainsSpan(t *testing.T) {
	c := &model.Component{BodyStart: 10, BodyEnd: 20}
	assert.True(t, c.Contains(10))
	assert.True(t, c.Contains(20))
	assert.True(t, c.Contains(15))
	assert.False(t, c.Contains(9))
	assert.False(t, c.Contains(21))
}

func TestComponent_ContainsNilReceiver(t *testing.T) {
	var c *model.Component
	assert.False(t, c.Contains(5))
}

func TestRunResult_AllDiagnosticsPreservesBucketOrder(t *testing.T) {
	r := &model.RunResult{
		ImportCycles:    []model.Diagnostic{{Code: "IMPORT-CYCLE"}},
		CrossFileCycles: []model.Diagnostic{{Code: "CROSS-FILE-CYCLE"}},
		HookDiagnostics: []model.Diagnostic{{Code: "RLD-100"}, {Code: "RLD-200"}},
	}
	all := r.AllDiagnostics()
	if assert.Len(t, all, 4) {
		assert.Equal(t, "IMPORT-CYCLE", all[0].Code)
		assert.Equal(t, "CROSS-FILE-CYCLE", all[1].Code)
		assert.Equal(t, "RLD-100", all[2].Code)
		assert.Equal(t, "RLD-200", all[3].Code)
	}
}
