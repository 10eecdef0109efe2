package instrument

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstrumentFileComparisonRewrite(t *testing.T) {
	input := `package main

func check(a, b int) bool {
	return a < b
}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.Contains(t, result.Code, TrackPackageImportPath)
	require.Contains(t, result.Code, TrackerVarName+".Compare(")
	require.Contains(t, result.Code, "racemoptrack.CompareLT")
	require.Equal(t, 1, result.Stats.ComparisonsWrapped)
}

func TestInstrumentFileArithRewrite(t *testing.T) {
	input := `package main

func sum(a, b int) int {
	return a + b
}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.Contains(t, result.Code, TrackerVarName+".Arith(")
	require.Equal(t, 1, result.Stats.ArithWrapped)
}

func TestInstrumentFileCompoundAssignRewrite(t *testing.T) {
	input := `package main

func accumulate(total *int, n int) {
	*total += n
}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.Contains(t, result.Code, TrackerVarName+".CompoundAssign(")
	require.Equal(t, 1, result.Stats.CompoundAssignments)
}

func TestInstrumentFileRangeLoopRewrite(t *testing.T) {
	input := `package main

func walk(items []int) {
	for _, v := range items {
		_ = v
	}
}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.Contains(t, result.Code, "ForLoopStart(")
	require.Contains(t, result.Code, "ForLoopEnd(")
	require.Equal(t, 1, result.Stats.RangeLoopsWrapped)
}

func TestInstrumentFileCallStmtRewrite(t *testing.T) {
	input := `package main

func doWork() {
	helper()
}

func helper() {}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.Contains(t, result.Code, "BeforeCall(")
	require.Contains(t, result.Code, "AfterCall(")
	require.Equal(t, 1, result.Stats.CallsWrapped)
}

func TestInstrumentFileSkipsBuiltinsAndTrackedCalls(t *testing.T) {
	input := `package main

func touch() {
	println("builtin call as a statement")
	__racemop_tracker__.AfterCall("x", "y", 1, racemoptrack.SourceLocation{}, nil)
}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.Equal(t, 0, result.Stats.CallsWrapped)
	require.True(t, result.Stats.CallsSkipped >= 1)
}

func TestInstrumentFileNoOpWhenNothingToRewrite(t *testing.T) {
	input := `package main

func noop() {}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.False(t, strings.Contains(result.Code, TrackPackageImportPath), "no import injected when nothing was rewritten")
}

func TestInstrumentFileInjectsMainBootstrap(t *testing.T) {
	input := `package main

func main() {
	helper()
}

func helper() {}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.True(t, result.Stats.MainBootstrapped)
	require.Contains(t, result.Code, "defer racemopbootstrap.Start()()")
	require.Contains(t, result.Code, BootstrapPackageImportPath)
}

func TestInstrumentFileNoBootstrapWithoutMainFunc(t *testing.T) {
	input := `package main

func noop() {}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.False(t, result.Stats.MainBootstrapped)
	require.False(t, strings.Contains(result.Code, BootstrapPackageImportPath))
}

func TestInstrumentFileNoBootstrapInNonMainPackage(t *testing.T) {
	input := `package lib

func main() {}
`
	result, err := InstrumentFile("test.go", input)
	require.NoError(t, err)
	require.False(t, result.Stats.MainBootstrapped)
}
