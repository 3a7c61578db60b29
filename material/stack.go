package material

import (
	"fmt"
	"strings"
)

// Stack is the ordered sequence of materials that describes a sample.
// By convention the material at index 0 is the medium surrounding the
// sample; this is documented, not enforced.
//
// Every member must use the same scattering phase function family: the
// kernel is compiled against exactly one phase function record type, so
// a mixed stack would corrupt every interaction.
type Stack struct {
	materials []*Material
	family    string
}

// NewStack constructs a stack from an ordered material sequence and
// validates it immediately. The stack keeps the supplied slice; callers
// must not share it across stacks.
func NewStack(materials []*Material) (*Stack, error) {
	s := &Stack{materials: materials}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStackFrom copy-constructs a stack. The member list is copied and
// the established family inherited; validation is skipped.
func NewStackFrom(other *Stack) *Stack {
	materials := make([]*Material, len(other.materials))
	copy(materials, other.materials)
	return &Stack{materials: materials, family: other.family}
}

// Validate checks the stack invariants: at least one material, no nil
// entries and a single phase function family throughout. The first
// offending index is reported.
func (s *Stack) Validate() error {
	if len(s.materials) == 0 {
		return fmt.Errorf("material: %w", ErrEmptyStack)
	}

	if s.family == "" {
		if s.materials[0] == nil {
			return fmt.Errorf("material: stack entry 0 is nil")
		}
		s.family = s.materials[0].Pf().Family()
	}

	for i, m := range s.materials {
		if m == nil {
			return fmt.Errorf("material: stack entry %d is nil", i)
		}
		if got := m.Pf().Family(); got != s.family {
			return fmt.Errorf("material: stack entry %d uses phase function family %s, stack requires %s: %w",
				i, got, s.family, ErrFamilyMismatch)
		}
	}
	return nil
}

// Len returns the number of materials.
func (s *Stack) Len() int { return len(s.materials) }

// Family returns the established phase function family.
func (s *Stack) Family() string { return s.family }

// At returns the material at the given index. Index 0 is the medium
// surrounding the sample.
func (s *Stack) At(index int) *Material { return s.materials[index] }

// Set replaces the material at the given index. The replacement's phase
// function family is validated against the established family before the
// stack is touched, so a mixed stack can never be introduced through
// assignment.
func (s *Stack) Set(index int, m *Material) error {
	if index < 0 || index >= len(s.materials) {
		return fmt.Errorf("material: stack index %d out of range [0, %d)", index, len(s.materials))
	}
	if m == nil {
		return fmt.Errorf("material: stack entry %d is nil", index)
	}
	if got := m.Pf().Family(); got != s.family {
		return fmt.Errorf("material: stack entry %d uses phase function family %s, stack requires %s: %w",
			index, got, s.family, ErrFamilyMismatch)
	}
	s.materials[index] = m
	return nil
}

// RecordSize returns the packed size of one material record in bytes
// under the active precision mode.
func (s *Stack) RecordSize() int {
	return s.materials[0].Layout().Size()
}

// Pack writes all materials as contiguous device records, index for
// index, with no header. The target buffer is reused when its size
// matches exactly; otherwise a fresh zero-initialized buffer is
// allocated. Packing never mutates the stack and repeated calls on an
// unmodified stack produce byte-identical output.
func (s *Stack) Pack(target []byte) ([]byte, error) {
	recordSize := s.RecordSize()
	total := recordSize * len(s.materials)
	if len(target) != total {
		target = make([]byte, total)
	}

	for i, m := range s.materials {
		slot := target[i*recordSize : (i+1)*recordSize]
		if _, err := m.Pack(slot); err != nil {
			return nil, fmt.Errorf("material: packing stack entry %d: %v", i, err)
		}
	}
	return target, nil
}

// Declaration returns the OpenCL declaration text of the stack's record
// type. All members share one family, so the first material speaks for
// the whole stack.
func (s *Stack) Declaration() string {
	return s.materials[0].Declaration()
}

// Implementation returns the OpenCL implementation text of the stack's
// record type.
func (s *Stack) Implementation() string {
	return s.materials[0].Implementation()
}

// ToDict exports the ordered member list with a type discriminator.
func (s *Stack) ToDict() map[string]interface{} {
	materials := make([]interface{}, len(s.materials))
	for i, m := range s.materials {
		materials[i] = m.ToDict()
	}
	return map[string]interface{}{
		"type":      "MaterialStack",
		"materials": materials,
	}
}

// StackFromDict reconstructs a stack from dict data produced by ToDict.
func StackFromDict(data map[string]interface{}) (*Stack, error) {
	if t, _ := data["type"].(string); t != "MaterialStack" {
		return nil, fmt.Errorf("material: expected type MaterialStack, got %q: %w", data["type"], ErrBadDict)
	}
	list, ok := data["materials"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("material: missing materials entry: %w", ErrBadDict)
	}

	materials := make([]*Material, len(list))
	for i, entry := range list {
		matData, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("material: stack entry %d is not a dict: %w", i, ErrBadDict)
		}
		m, err := FromDict(matData)
		if err != nil {
			return nil, fmt.Errorf("material: stack entry %d: %v", i, err)
		}
		materials[i] = m
	}
	return NewStack(materials)
}

// String implements Stringer.
func (s *Stack) String() string {
	items := make([]string, len(s.materials))
	for i, m := range s.materials {
		items[i] = m.String()
		if i == 0 {
			items[i] += " (surrounding medium)"
		}
	}
	return "MaterialStack[\n\t" + strings.Join(items, ",\n\t") + "\n]"
}
