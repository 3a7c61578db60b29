package material

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/photomc/photomc/cltypes"
	"github.com/photomc/photomc/pf"
)

func twoLayerStack(t *testing.T) *Stack {
	t.Helper()
	stack, err := NewStack([]*Material{
		New(1, 0, 10, pf.NewGk(0.8, 0.5)),
		New(1.33, 5, 50, pf.NewGk(0.9, 0.5)),
	})
	if err != nil {
		t.Fatal(err)
	}
	return stack
}

func TestNewStackRejectsMixedFamilies(t *testing.T) {
	_, err := NewStack([]*Material{
		New(1, 0, 10, pf.NewGk(0.8, 0.5)),
		New(1.33, 5, 50, pf.NewHg(0.9)),
	})
	if !errors.Is(err, ErrFamilyMismatch) {
		t.Fatalf("expected ErrFamilyMismatch; got %v", err)
	}
	if !strings.Contains(err.Error(), "entry 1") {
		t.Fatalf("expected the first offending index in the error; got %v", err)
	}
}

func TestNewStackRejectsEmpty(t *testing.T) {
	if _, err := NewStack(nil); !errors.Is(err, ErrEmptyStack) {
		t.Fatalf("expected ErrEmptyStack; got %v", err)
	}
}

func TestStackAccessors(t *testing.T) {
	stack := twoLayerStack(t)

	if stack.Len() != 2 {
		t.Fatalf("expected 2 materials; got %d", stack.Len())
	}
	if stack.Family() != "Gk" {
		t.Fatalf("expected family Gk; got %s", stack.Family())
	}
	if stack.At(0).N() != 1 || stack.At(1).N() != 1.33 {
		t.Fatal("expected index order to be preserved")
	}
}

func TestStackSetValidatesBeforeMutation(t *testing.T) {
	stack := twoLayerStack(t)
	before := stack.At(1)

	if err := stack.Set(1, New(1.5, 1, 1, pf.NewHg(0.5))); !errors.Is(err, ErrFamilyMismatch) {
		t.Fatalf("expected ErrFamilyMismatch; got %v", err)
	}
	if stack.At(1) != before {
		t.Fatal("expected a rejected assignment to leave the stack untouched")
	}

	if err := stack.Set(5, New(1.5, 1, 1, pf.NewGk(0.5, 0.5))); err == nil {
		t.Fatal("expected an out of range error")
	}
	if err := stack.Set(0, nil); err == nil {
		t.Fatal("expected a nil entry error")
	}

	replacement := New(1.5, 1, 1, pf.NewGk(0.5, 0.5))
	if err := stack.Set(1, replacement); err != nil {
		t.Fatal(err)
	}
	if stack.At(1) != replacement {
		t.Fatal("expected a valid assignment to take effect")
	}
}

func TestNewStackFromCopiesMemberList(t *testing.T) {
	stack := twoLayerStack(t)
	clone := NewStackFrom(stack)

	if clone.Family() != stack.Family() {
		t.Fatalf("expected the clone to inherit family %s; got %s", stack.Family(), clone.Family())
	}
	// Members are shared, the list is not.
	if clone.At(0) != stack.At(0) {
		t.Fatal("expected the clone to share material instances")
	}
	if err := clone.Set(0, New(1.1, 0, 1, pf.NewGk(0, 0.5))); err != nil {
		t.Fatal(err)
	}
	if stack.At(0) == clone.At(0) {
		t.Fatal("expected assignment on the clone to leave the source stack untouched")
	}
}

// Packs the two-layer sample stack and verifies the derived scalars of
// both contiguous records.
func TestStackPackRecords(t *testing.T) {
	withPrecision(t, cltypes.Double)

	stack := twoLayerStack(t)
	buf, err := stack.Pack(nil)
	if err != nil {
		t.Fatal(err)
	}

	recordSize := stack.RecordSize()
	if len(buf) != 2*recordSize {
		t.Fatalf("expected %d bytes for 2 records; got %d", 2*recordSize, len(buf))
	}

	first, second := buf[:recordSize], buf[recordSize:]
	if got := scalarAt(t, first, 3); got != 0.1 {
		t.Fatalf("expected inv_mut=0.1 in record 0; got %g", got)
	}
	if got := scalarAt(t, first, 4); got != 0 {
		t.Fatalf("expected mua_inv_mut=0 in record 0; got %g", got)
	}
	if got := scalarAt(t, second, 3); got != 1.0/55 {
		t.Fatalf("expected inv_mut=%g in record 1; got %g", 1.0/55, got)
	}
	if got := scalarAt(t, second, 4); got != 5.0/55 {
		t.Fatalf("expected mua_inv_mut=%g in record 1; got %g", 5.0/55, got)
	}
}

func TestStackPackReusesMatchingTarget(t *testing.T) {
	withPrecision(t, cltypes.Single)

	stack := twoLayerStack(t)
	target := make([]byte, 2*stack.RecordSize())

	buf, err := stack.Pack(target)
	if err != nil {
		t.Fatal(err)
	}
	if &buf[0] != &target[0] {
		t.Fatal("expected a matching target buffer to be reused")
	}

	short, err := stack.Pack(make([]byte, 3))
	if err != nil {
		t.Fatal(err)
	}
	if len(short) != 2*stack.RecordSize() {
		t.Fatalf("expected a fresh full-size buffer; got %d bytes", len(short))
	}
	if !bytes.Equal(buf, short) {
		t.Fatal("expected identical records regardless of target reuse")
	}
}

func TestStackDictRoundTrip(t *testing.T) {
	stack := twoLayerStack(t)

	clone, err := StackFromDict(stack.ToDict())
	if err != nil {
		t.Fatal(err)
	}
	if clone.Len() != stack.Len() || clone.Family() != stack.Family() {
		t.Fatalf("stack shape changed across round trip: %v vs %v", clone, stack)
	}
	for i := 0; i < stack.Len(); i++ {
		if clone.At(i).Mua() != stack.At(i).Mua() || clone.At(i).Mus() != stack.At(i).Mus() {
			t.Fatalf("entry %d changed across round trip", i)
		}
	}
}

func TestStackJSONRoundTrip(t *testing.T) {
	withPrecision(t, cltypes.Single)

	stack := twoLayerStack(t)
	data, err := json.Marshal(stack)
	if err != nil {
		t.Fatal(err)
	}

	var clone Stack
	if err = json.Unmarshal(data, &clone); err != nil {
		t.Fatal(err)
	}

	// The restored stack must pack to the exact bytes of the source.
	want, err := stack.Pack(nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := clone.Pack(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Fatal("expected identical device records after a json round trip")
	}
}

func TestStackStringMarksSurroundingMedium(t *testing.T) {
	stack := twoLayerStack(t)
	if !strings.Contains(stack.String(), "(surrounding medium)") {
		t.Fatalf("expected the surrounding medium marker:\n%s", stack.String())
	}
}
