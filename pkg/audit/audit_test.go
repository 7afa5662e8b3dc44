package audit

import (
	"bytes"
	"log"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/logging"
)

func TestContextRecording(t *testing.T) {
	// Create a context and record a handle lifecycle.
	context := NewContext()
	context.RecordOpen("/some/path")
	context.RecordOpen("/other/path")
	context.RecordClosed("/some/path")

	// Ensure that only the unreleased handle is outstanding.
	outstanding := context.Outstanding()
	if len(outstanding) != 1 || outstanding[0] != "/other/path" {
		t.Error("unexpected outstanding handles:", outstanding)
	}

	// Reset and ensure the registry clears.
	context.Reset()
	if outstanding := context.Outstanding(); len(outstanding) != 0 {
		t.Error("registry not cleared by reset:", outstanding)
	}
}

func TestContextOutstandingSorted(t *testing.T) {
	// Record handles in non-lexicographic order.
	context := NewContext()
	context.RecordOpen("/b")
	context.RecordOpen("/a")
	context.RecordOpen("/c")

	// Ensure lexicographic reporting.
	outstanding := context.Outstanding()
	if len(outstanding) != 3 || outstanding[0] != "/a" || outstanding[1] != "/b" || outstanding[2] != "/c" {
		t.Error("outstanding handles not sorted:", outstanding)
	}
}

func TestNilContextRecordsNothing(t *testing.T) {
	// Ensure that a nil context tolerates all operations.
	var context *Context
	context.RecordOpen("/some/path")
	context.RecordClosed("/some/path")
	context.Reset()
	if outstanding := context.Outstanding(); outstanding != nil {
		t.Error("nil context reported outstanding handles:", outstanding)
	}
	if context.Identifier() != "" {
		t.Error("nil context reported an identifier")
	}
}

func TestContextIdentifiersUnique(t *testing.T) {
	if NewContext().Identifier() == NewContext().Identifier() {
		t.Error("contexts share an identifier")
	}
}

func TestOpenHandles(t *testing.T) {
	// Handle introspection is only implemented for Linux.
	count, err := OpenHandles()
	if runtime.GOOS != "linux" {
		if !errors.Is(err, ErrUnsupportedPlatform) {
			t.Error("expected unsupported platform condition, got:", err)
		}
		return
	}
	if err != nil {
		t.Fatal("handle sampling failed:", err)
	}
	if count <= 0 {
		t.Error("implausible handle count:", count)
	}
}

func TestHandleBudget(t *testing.T) {
	// Resource limit introspection is only implemented for Linux.
	budget, err := HandleBudget()
	if runtime.GOOS != "linux" {
		if !errors.Is(err, ErrUnsupportedPlatform) {
			t.Error("expected unsupported platform condition, got:", err)
		}
		return
	}
	if err != nil {
		t.Fatal("budget query failed:", err)
	}
	if budget == 0 {
		t.Error("implausible handle budget")
	}
}

func TestAuditedPropagatesError(t *testing.T) {
	// Ensure that the audited function's error propagates and findings are
	// non-fatal.
	failure := errors.New("audited failure")
	err := Audited(nil, func(context *Context) error {
		context.RecordOpen("/leaked")
		return failure
	})
	if err != failure {
		t.Error("expected audited failure, got:", err)
	}
}

func TestAuditedReportsHandleGrowthAgainstBudget(t *testing.T) {
	// Handle introspection is only implemented for Linux.
	if runtime.GOOS != "linux" {
		t.Skip("handle introspection unsupported on this platform")
	}

	// Capture log output.
	buffer := &bytes.Buffer{}
	log.SetOutput(buffer)
	defer log.SetOutput(os.Stderr)

	// Leak a handle inside the audited block, releasing it only afterwards.
	var leaked *os.File
	if err := Audited(logging.RootLogger, func(*Context) error {
		file, err := os.Open(os.DevNull)
		leaked = file
		return err
	}); err != nil {
		t.Fatal("audited block failed:", err)
	}
	defer leaked.Close()

	// Ensure that the growth report includes the handle budget.
	output := buffer.String()
	if !strings.Contains(output, "grew") {
		t.Fatal("handle growth not reported:", output)
	}
	if !strings.Contains(output, "budget") {
		t.Error("handle budget not included in growth report:", output)
	}
}

func TestAuditedSuccess(t *testing.T) {
	// Ensure that a clean run reports no error.
	if err := Audited(nil, func(context *Context) error {
		context.RecordOpen("/handle")
		context.RecordClosed("/handle")
		return nil
	}); err != nil {
		t.Error("audited block failed:", err)
	}
}
